package sim

import (
	"math/rand"

	"github.com/s-tikhomirov/jamsim/engine/htlc"
	"github.com/s-tikhomirov/jamsim/engine/ledger"
	"github.com/s-tikhomirov/jamsim/engine/network"
	"github.com/s-tikhomirov/jamsim/engine/payment"
)

// forward drives a built payment hop-by-hop through directional channel
// state, per spec §4.6's forwarding inner loop. It mutates l and the
// channel directions' HTLC queues as a side effect — committed state is
// never rolled back on failure (spec §7): hops up to and including the
// failure point keep whatever ledger/queue effects they already applied.
func forward(hops []payment.HopPayment, simTime float64, l *ledger.Ledger, rnd *rand.Rand, noBalanceFailures bool, balanceFailureProb float64) error {
	for i, hp := range hops {
		cd := hp.Channel.Direction(hp.Direction)

		if cd.BaseUpfront != 0 || cd.RateUpfront != 0 {
			l.Transfer(hp.Upstream, hp.Downstream, hp.UpfrontFee)
		}

		if hp.DesiredResult && !noBalanceFailures && balanceFailureProb > 0 {
			if rnd.Float64() < balanceFailureProb {
				return &BalanceFailureError{AtHop: i}
			}
		}

		if !cd.HasFreeSlot() {
			earliest := cd.PeekEarliest()
			if earliest == nil || earliest.ResolutionTime > simTime {
				return &SlotsJammedError{AtHop: i}
			}
			resolve(cd.PopEarliest(), l)
		}

		h := &htlc.Htlc{
			ResolutionTime:   simTime + hp.ProcessingDelay,
			DesiredResult:    hp.DesiredResult,
			SuccessFeeAmount: hp.SuccessFee,
			Upstream:         hp.Upstream,
			Downstream:       hp.Downstream,
		}
		if err := cd.TryInsert(h); err != nil {
			// HasFreeSlot() was just checked true (directly, or freed by
			// the resolve above), so TryInsert cannot fail here.
			return &SlotsJammedError{AtHop: i}
		}
	}
	return nil
}

// resolve applies an HTLC's fee effect to the ledger: the success fee flows
// upstream -> downstream if the HTLC's desired result was true, otherwise
// downstream -> upstream (a jam payment that got this far "pays itself
// back" since it was never meant to succeed). Note this only zeroes out a
// jam HTLC's own success fee; if a channel direction's success-fee
// coefficients are non-zero while its upfront coefficients are zero, a jam
// HTLC still moves a non-zero SuccessFeeAmount here, so the ledger is not
// actually zero-sum in that configuration even though every payment along
// the way was a jam.
func resolve(h *htlc.Htlc, l *ledger.Ledger) {
	if h.DesiredResult {
		l.Transfer(h.Upstream, h.Downstream, h.SuccessFeeAmount)
	} else {
		l.Transfer(h.Downstream, h.Upstream, h.SuccessFeeAmount)
	}
}

// drain resolves every remaining in-flight HTLC against its own resolution
// time (spec §4.6 step 4 / invariant I3), realizing lazily-deferred
// resolutions so the ledger reflects every committed HTLC once a run ends.
func drain(model *network.Model, l *ledger.Ledger) {
	for _, cd := range model.AllChannelDirections() {
		for cd.Len() > 0 {
			resolve(cd.PopEarliest(), l)
		}
	}
}
