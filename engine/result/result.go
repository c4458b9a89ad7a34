// Package result defines the per-run output object (spec §6) and the
// run-identifying metadata layered on top of it for persistence/messaging
// (see storage/resultstore, messaging/sweepevents).
package result

import "github.com/s-tikhomirov/jamsim/engine/network"

// Stats are the aggregate counts produced by one simulation run.
type Stats struct {
	NumSent            int
	NumFailed          int
	NumReachedReceiver int
}

// Result is a single run's output: the stats plus the final per-node
// revenue ledger, tagged with a RunID and the seed that produced it (R2:
// the same seed replayed must reproduce a bit-identical Result).
type Result struct {
	RunID    string
	Seed     int64
	Stats    Stats
	Revenues map[network.Node]float64
}
