package sim

import (
	"errors"
	"fmt"
)

// ErrNoRoute names the no-route outcome: the router's iterator yields no
// further candidate for an event, which ends processing of that event. The
// engine does not return it; runHonestEvent reports that outcome as false.
var ErrNoRoute = errors.New("sim: no route available")

// SlotsJammedError reports that hop AtHop (0-indexed along the attempted
// route) found its channel direction jammed: no free slot, and the
// earliest-resolving HTLC resolves strictly after the current sim time.
type SlotsJammedError struct {
	AtHop int
}

func (e *SlotsJammedError) Error() string {
	return fmt.Sprintf("sim: slots jammed at hop %d", e.AtHop)
}

// BalanceFailureError reports that hop AtHop independently rejected an
// otherwise-successful honest forward (spec §4.6's balance-failure axis).
type BalanceFailureError struct {
	AtHop int
}

func (e *BalanceFailureError) Error() string {
	return fmt.Sprintf("sim: balance failure at hop %d", e.AtHop)
}
