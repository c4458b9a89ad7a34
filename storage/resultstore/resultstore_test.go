package resultstore

import (
	"context"
	"testing"
	"time"

	"github.com/s-tikhomirov/jamsim/engine/network"
	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/sweep"
)

// TestHashChainIntegrity verifies:
// 1. Insert several results into the ledger
// 2. Every entry's previous_hash matches the prior entry's current_hash
// 3. VerifyChain reports no violations on an untampered ledger
func TestHashChainIntegrity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Open(ctx, DefaultConfig())
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	defer store.Close()

	cell := sweep.FeeCoeffCell{UpfrontBaseCoeff: 1, UpfrontRateCoeff: 0.5}

	var inserted []*Entry
	for i := 0; i < 3; i++ {
		r := result.Result{
			RunID: "run-test",
			Seed:  int64(i),
			Stats: result.Stats{NumSent: 10, NumReachedReceiver: 9, NumFailed: 1},
		}
		e, err := store.InsertResult(ctx, cell, r)
		if err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
		inserted = append(inserted, e)
	}

	for i := 1; i < len(inserted); i++ {
		if inserted[i].PreviousHash != inserted[i-1].CurrentHash {
			t.Fatalf("entry %d previous_hash %q does not match entry %d current_hash %q",
				i, inserted[i].PreviousHash, i-1, inserted[i-1].CurrentHash)
		}
	}

	violations, err := store.VerifyChain(ctx)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no chain violations, got %v", violations)
	}
}

func TestGetResultRoundTrips(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Open(ctx, DefaultConfig())
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	defer store.Close()

	cell := sweep.FeeCoeffCell{UpfrontBaseCoeff: 0, UpfrontRateCoeff: 0}
	want := result.Result{
		RunID:    "run-roundtrip",
		Seed:     42,
		Stats:    result.Stats{NumSent: 5},
		Revenues: map[network.Node]float64{},
	}

	e, err := store.InsertResult(ctx, cell, want)
	if err != nil {
		t.Fatalf("InsertResult: %v", err)
	}

	got, err := store.GetResult(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.RunID != want.RunID || got.Seed != want.Seed {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
