// Package schedule implements the time-ordered event queue and the
// mode-specific event generators (honest / jamming) from spec §4.3.
package schedule

import "github.com/s-tikhomirov/jamsim/engine/network"

// Event is a scheduled payment attempt.
type Event struct {
	Time            float64
	Sender          network.Node
	Receiver        network.Node
	Amount          int64
	DesiredResult   bool
	ProcessingDelay float64
	MustRouteVia    []network.Node

	seq int64 // insertion order, used as the FIFO tie-break (R2)
}
