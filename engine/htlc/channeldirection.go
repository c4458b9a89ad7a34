package htlc

import "container/heap"

// ChannelDirection is the key stateful entity of the simulator: the fee
// coefficients and in-flight HTLC queue for one direction of one channel.
type ChannelDirection struct {
	BaseSuccess float64
	RateSuccess float64
	BaseUpfront float64
	RateUpfront float64

	NumSlots int

	htlcs htlcHeap
}

// NewChannelDirection constructs a ChannelDirection with an empty queue.
func NewChannelDirection(baseSuccess, rateSuccess, baseUpfront, rateUpfront float64, numSlots int) *ChannelDirection {
	cd := &ChannelDirection{
		BaseSuccess: baseSuccess,
		RateSuccess: rateSuccess,
		BaseUpfront: baseUpfront,
		RateUpfront: rateUpfront,
		NumSlots:    numSlots,
	}
	heap.Init(&cd.htlcs)
	return cd
}

// HasFreeSlot reports whether the directional queue has room for another
// HTLC (invariant H1: len(htlcs) <= NumSlots is maintained by TryInsert
// only ever being called when this returns true).
func (cd *ChannelDirection) HasFreeSlot() bool {
	return cd.htlcs.Len() < cd.NumSlots
}

// TryInsert inserts an HTLC if a slot is free, otherwise returns
// ErrSlotsFull.
func (cd *ChannelDirection) TryInsert(h *Htlc) error {
	if !cd.HasFreeSlot() {
		return ErrSlotsFull
	}
	heap.Push(&cd.htlcs, h)
	return nil
}

// PeekEarliest returns the HTLC with the smallest resolution time, or nil
// if the queue is empty.
func (cd *ChannelDirection) PeekEarliest() *Htlc {
	if cd.htlcs.Len() == 0 {
		return nil
	}
	return cd.htlcs[0]
}

// PopEarliest removes and returns the HTLC with the smallest resolution
// time. Panics if the queue is empty — callers must check PeekEarliest or
// queue length first (mirrors spec invariant H3: only ever called on a
// non-empty queue immediately after a peek).
func (cd *ChannelDirection) PopEarliest() *Htlc {
	return heap.Pop(&cd.htlcs).(*Htlc)
}

// Len reports the current number of in-flight HTLCs.
func (cd *ChannelDirection) Len() int {
	return cd.htlcs.Len()
}

// Reset empties the queue, used between simulation runs.
func (cd *ChannelDirection) Reset() {
	cd.htlcs = cd.htlcs[:0]
}

// Jammed reports whether the direction is jammed at simulated time t: all
// slots are occupied and the earliest-resolving HTLC still resolves
// strictly after t.
func (cd *ChannelDirection) Jammed(t float64) bool {
	if cd.HasFreeSlot() {
		return false
	}
	earliest := cd.PeekEarliest()
	return earliest != nil && earliest.ResolutionTime > t
}

// ComputeFees computes the success-fee and upfront-fee for a hop forwarding
// body B with amount A, per spec §4.5:
//
//	success_fee = base_success + rate_success * body
//	upfront_fee = base_upfront + rate_upfront * amount
func (cd *ChannelDirection) ComputeFees(body, amount int64) (successFee, upfrontFee float64) {
	successFee = cd.BaseSuccess + cd.RateSuccess*float64(body)
	upfrontFee = cd.BaseUpfront + cd.RateUpfront*float64(amount)
	return successFee, upfrontFee
}

// AllHtlcs returns a snapshot slice of all in-flight HTLCs, used by the
// drain phase. The returned slice is not ordered.
func (cd *ChannelDirection) AllHtlcs() []*Htlc {
	out := make([]*Htlc, len(cd.htlcs))
	copy(out, cd.htlcs)
	return out
}
