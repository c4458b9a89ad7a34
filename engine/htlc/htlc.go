// Package htlc implements the in-flight HTLC machinery: per-(channel,
// direction) fee coefficients and a bounded priority queue of outstanding
// obligations, ordered by resolution time. This package has no dependency
// on engine/network — Node and Direction are defined here and aliased by
// network, since a channel direction's fee/slot state is the lower-level
// primitive the topology graph is built on top of.
package htlc

import "errors"

// ErrSlotsFull is returned by TryInsert when the directional queue has no
// free slot.
var ErrSlotsFull = errors.New("htlc: no free slot in channel direction")

// Htlc is an in-flight conditional payment obligation. Immutable after
// insertion (invariant H3: no HTLC is resolved twice, enforced by the queue
// popping it exactly once).
type Htlc struct {
	ResolutionTime   float64
	DesiredResult    bool
	SuccessFeeAmount float64
	Upstream         Node
	Downstream       Node
}
