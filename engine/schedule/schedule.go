package schedule

import "container/heap"

// Schedule is a min-heap of Events keyed by (Time, seq) — seq is a
// monotonic insertion counter that resolves same-timestamp ties FIFO, per
// spec §9's open question on tie-break ordering (required for R2,
// bit-identical replay).
type Schedule struct {
	EndTime float64

	heap   eventHeap
	nextSeq int64
}

// New constructs an empty Schedule ending at endTime.
func New(endTime float64) *Schedule {
	s := &Schedule{EndTime: endTime}
	heap.Init(&s.heap)
	return s
}

// Push inserts an event, stamping it with the next FIFO sequence number.
func (s *Schedule) Push(e Event) {
	e.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.heap, e)
}

// PopEarliest removes and returns the earliest-scheduled event.
func (s *Schedule) PopEarliest() Event {
	return heap.Pop(&s.heap).(Event)
}

// PeekEarliest returns the earliest-scheduled event without removing it,
// and whether the schedule is non-empty.
func (s *Schedule) PeekEarliest() (Event, bool) {
	if s.heap.Len() == 0 {
		return Event{}, false
	}
	return s.heap[0], true
}

// IsEmpty reports whether the schedule has no pending events.
func (s *Schedule) IsEmpty() bool {
	return s.heap.Len() == 0
}

// eventHeap is the container/heap implementation backing Schedule, in the
// same idiom as htlc's htlcHeap.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
