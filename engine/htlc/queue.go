package htlc

// htlcHeap is a min-heap of *Htlc ordered by ResolutionTime, in the same
// container/heap idiom as the teacher's pathHeap/dijkstraHeap
// (engine/router/yen.go in the teacher repo).
type htlcHeap []*Htlc

func (h htlcHeap) Len() int            { return len(h) }
func (h htlcHeap) Less(i, j int) bool  { return h[i].ResolutionTime < h[j].ResolutionTime }
func (h htlcHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *htlcHeap) Push(x interface{}) { *h = append(*h, x.(*Htlc)) }
func (h *htlcHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}
