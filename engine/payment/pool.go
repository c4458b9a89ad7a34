package payment

import "sync"

// slicePool recycles []HopPayment backing arrays across route attempts —
// payments are built once per attempt and route attempts are the
// simulator's hottest allocation path, mirroring the teacher's pooled
// SettlementRequest/SettlementResponse (engine/models/settlement.go).
var slicePool = sync.Pool{
	New: func() interface{} {
		s := make([]HopPayment, 0, 8)
		return &s
	},
}

// Acquire returns a zero-length []HopPayment with reusable backing capacity.
func Acquire() *[]HopPayment {
	return slicePool.Get().(*[]HopPayment)
}

// Release clears and returns a slice obtained from Acquire back to the pool.
func Release(s *[]HopPayment) {
	if s == nil {
		return
	}
	*s = (*s)[:0]
	slicePool.Put(s)
}

