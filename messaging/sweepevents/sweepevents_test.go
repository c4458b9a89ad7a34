package sweepevents

import (
	"context"
	"testing"
	"time"

	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/sweep"
)

func TestPublishCellComplete(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, err := NewPublisher(ctx, DefaultConfig())
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	defer pub.Close()

	if err := pub.SetupStream(ctx); err != nil {
		t.Fatalf("SetupStream: %v", err)
	}

	cr := sweep.CellResult{
		Cell:  sweep.FeeCoeffCell{UpfrontBaseCoeff: 1, UpfrontRateCoeff: 0},
		Runs:  []result.Result{{RunID: "run-a"}, {RunID: "run-b"}},
		Shard: "shard-0",
	}

	if err := pub.PublishCellComplete(ctx, cr, time.Now()); err != nil {
		t.Fatalf("PublishCellComplete: %v", err)
	}
}
