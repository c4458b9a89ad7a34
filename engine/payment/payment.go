// Package payment builds the flat-vector wrapped-payment representation
// (spec §9's "recursive wrapped payment -> explicit list" design note) from
// a route and constructs per-hop fee arithmetic per spec §4.5.
package payment

import (
	"math"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

// HopPayment is one hop's slice of a payment built for a route attempt.
// Index 0 is the outermost hop (what the sender pays); the last entry is
// the hop into the receiver.
type HopPayment struct {
	Upstream      network.Node
	Downstream    network.Node
	Channel       *network.Channel
	Direction     network.Direction
	Body          int64
	Amount        int64
	SuccessFee    float64
	UpfrontFee    float64
	DesiredResult bool
	ProcessingDelay float64
}

// ErrNoCapableChannel is returned when no channel on a hop can carry the
// required amount in the required direction.
type ErrNoCapableChannel struct {
	Upstream, Downstream network.Node
}

func (e *ErrNoCapableChannel) Error() string {
	return "payment: no capable channel between " + string(e.Upstream) + " and " + string(e.Downstream)
}

// Build walks route backwards from the receiver, choosing the cheapest
// qualifying channel at each hop and computing success/upfront fees per
// spec §4.5. desiredResult and processingDelay are shared across the whole
// payment (they come from the originating Event). Returns a flat slice
// ordered sender-to-receiver (index 0 = sender's hop).
func Build(model *network.Model, route []network.Node, body int64, desiredResult bool, processingDelay float64) ([]HopPayment, error) {
	n := len(route) - 1
	if n < 1 {
		return nil, nil
	}
	hops := make([]HopPayment, n)
	if err := buildInto(model, route, body, desiredResult, processingDelay, hops); err != nil {
		return nil, err
	}
	return hops, nil
}

// BuildInto is Build but fills *dst (for example a slice from
// Acquire/Release), resizing it to the hop count and overwriting its
// contents, instead of allocating a fresh slice. engine/sim calls Build,
// not BuildInto.
func BuildInto(model *network.Model, route []network.Node, body int64, desiredResult bool, processingDelay float64, dst *[]HopPayment) error {
	n := len(route) - 1
	if n < 1 {
		return nil
	}
	if cap(*dst) < n {
		*dst = make([]HopPayment, n)
	} else {
		*dst = (*dst)[:n]
	}
	return buildInto(model, route, body, desiredResult, processingDelay, *dst)
}

func buildInto(model *network.Model, route []network.Node, body int64, desiredResult bool, processingDelay float64, hops []HopPayment) error {
	n := len(route) - 1
	// amount_k = B at the receiver end; walk backwards.
	amount := body
	for i := n - 1; i >= 0; i-- {
		upstream, downstream := route[i], route[i+1]
		hop := model.Hop(upstream, downstream)
		if hop == nil {
			return &ErrNoCapableChannel{Upstream: upstream, Downstream: downstream}
		}
		direction, _ := network.DirectionBetween(upstream, downstream)

		// body_i = amount_{i+1}: what this hop is asked to forward onward.
		thisBody := amount

		channel := hop.Cheapest(direction, thisBody)
		if channel == nil {
			return &ErrNoCapableChannel{Upstream: upstream, Downstream: downstream}
		}
		cd := channel.Direction(direction)

		successFee, _ := cd.ComputeFees(thisBody, thisBody) // upfront computed below against final amount_i
		thisAmount := thisBody + int64(math.Round(successFee))
		_, upfrontFee := cd.ComputeFees(thisBody, thisAmount)

		hops[i] = HopPayment{
			Upstream:        upstream,
			Downstream:      downstream,
			Channel:         channel,
			Direction:       direction,
			Body:            thisBody,
			Amount:          thisAmount,
			SuccessFee:      successFee,
			UpfrontFee:      upfrontFee,
			DesiredResult:   desiredResult,
			ProcessingDelay: processingDelay,
		}

		amount = thisAmount
	}

	return nil
}
