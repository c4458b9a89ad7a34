package sweep

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/s-tikhomirov/jamsim/engine/result"
)

func TestSweepDispatchesAllJobs(t *testing.T) {
	cfg := Config{
		Grid: []FeeCoeffCell{
			{UpfrontBaseCoeff: 0, UpfrontRateCoeff: 0},
			{UpfrontBaseCoeff: 1, UpfrontRateCoeff: 0.5},
		},
		RepetitionsPerCell: 3,
		MaxWorkers:         4,
		Shards:             []string{"a", "b"},
	}

	var calls int32Counter
	out := Sweep(cfg, 1, func(rnd *rand.Rand, cell FeeCoeffCell) result.Result {
		calls.inc()
		return result.Result{Stats: result.Stats{NumSent: 1}}
	})

	if calls.get() != len(cfg.Grid)*cfg.RepetitionsPerCell {
		t.Fatalf("got %d runner calls, want %d", calls.get(), len(cfg.Grid)*cfg.RepetitionsPerCell)
	}
	if len(out) != len(cfg.Grid) {
		t.Fatalf("got %d cell results, want %d", len(out), len(cfg.Grid))
	}
	for _, cr := range out {
		if len(cr.Runs) != cfg.RepetitionsPerCell {
			t.Fatalf("cell %v has %d runs, want %d", cr.Cell, len(cr.Runs), cfg.RepetitionsPerCell)
		}
		if cr.Shard == "" {
			t.Fatalf("cell %v has no shard assigned", cr.Cell)
		}
		for _, r := range cr.Runs {
			if r.RunID == "" {
				t.Fatal("expected a stamped RunID")
			}
		}
	}
}

type int32Counter struct {
	mu sync.Mutex
	n  int
}

func (c *int32Counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *int32Counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
