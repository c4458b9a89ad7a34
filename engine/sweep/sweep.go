// Package sweep runs many simulation runs — the grid of unconditional-fee
// coefficient pairs times N repetitions per cell — across a bounded worker
// pool, outside the simulation core proper (spec §1 names "the outer sweep
// over fee-coefficient grids" an explicit non-goal of the core, but a
// complete repo still needs something driving the core; this is that
// thin-but-real orchestration layer).
package sweep

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
	"github.com/gammazero/deque"
	"github.com/gammazero/workerpool"
	"github.com/google/uuid"

	"github.com/s-tikhomirov/jamsim/engine/result"
)

// FeeCoeffCell is one point of the sweep grid: an unconditional-fee
// coefficient pair to apply uniformly across the topology before running.
type FeeCoeffCell struct {
	UpfrontBaseCoeff float64
	UpfrontRateCoeff float64
}

func (c FeeCoeffCell) key() string {
	return fmt.Sprintf("%g:%g", c.UpfrontBaseCoeff, c.UpfrontRateCoeff)
}

// job is one (grid cell, repetition) unit of work.
type job struct {
	cell FeeCoeffCell
	seed int64
}

// CellResult aggregates every repetition's Result for one grid cell, tagged
// with the result-store shard it's assigned to (see Config.Shards).
type CellResult struct {
	Cell  FeeCoeffCell
	Runs  []result.Result
	Shard string
}

// Config configures a sweep run.
type Config struct {
	Grid               []FeeCoeffCell
	RepetitionsPerCell int
	MaxWorkers         int
	// Shards are candidate result-store shard names; each grid cell is
	// assigned one via rendezvous hashing, so adding/removing a shard only
	// reshuffles the cells that hashed nearest the changed shard (stable
	// affinity, not a full remap) — mirrors how a cache or shard-routed
	// store would place this sweep's output.
	Shards []string
}

// DefaultConfig mirrors the teacher's worker.DefaultConfig shape.
func DefaultConfig() Config {
	return Config{
		RepetitionsPerCell: 10,
		MaxWorkers:         100,
		Shards:             []string{"shard-0"},
	}
}

// RunnerFunc builds and executes one simulation run for a given seed and
// fee-coefficient cell, returning its Result. Supplied by the caller
// (cmd/jamsim) since it alone knows the topology and run-mode parameters.
type RunnerFunc func(rnd *rand.Rand, cell FeeCoeffCell) result.Result

// Sweep drives Config.Grid x Config.RepetitionsPerCell runs across a bounded
// gammazero/workerpool, buffering not-yet-dispatched jobs in a
// gammazero/deque FIFO (the lazy-buffering role engine/router's jamming
// iterator explicitly does NOT use — see DESIGN.md — because a grid sweep's
// jobs are homogeneous push/pop work items, not combinatorial candidates
// needing random-access rank decoding). Each run's Result is stamped with a
// fresh RunID (google/uuid) and its seed; each grid cell is assigned a
// result-store shard via rendezvous hashing (github.com/dgryski/go-
// rendezvous) keyed by cespare/xxhash over the cell's coefficients.
func Sweep(cfg Config, baseSeed int64, run RunnerFunc) []CellResult {
	var pending deque.Deque[job]
	seed := baseSeed
	for _, cell := range cfg.Grid {
		for i := 0; i < cfg.RepetitionsPerCell; i++ {
			pending.PushBack(job{cell: cell, seed: seed})
			seed++
		}
	}

	results := make(map[FeeCoeffCell][]result.Result)
	var mu sync.Mutex
	var wg sync.WaitGroup

	wp := workerpool.New(cfg.MaxWorkers)
	for pending.Len() > 0 {
		j := pending.PopFront()
		wg.Add(1)
		wp.Submit(func() {
			defer wg.Done()
			r := run(rand.New(rand.NewSource(j.seed)), j.cell)
			r.RunID = uuid.NewString()
			r.Seed = j.seed

			mu.Lock()
			results[j.cell] = append(results[j.cell], r)
			mu.Unlock()
		})
	}
	wg.Wait()
	wp.StopWait()

	hasher := rendezvous.New(cfg.Shards, func(s string) uint64 { return xxhash.Sum64String(s) })

	out := make([]CellResult, 0, len(cfg.Grid))
	for _, cell := range cfg.Grid {
		out = append(out, CellResult{
			Cell:  cell,
			Runs:  results[cell],
			Shard: hasher.Lookup(cell.key()),
		})
	}
	return out
}
