package report

import (
	"testing"

	"github.com/s-tikhomirov/jamsim/engine/network"
	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/sweep"
)

func TestGeneratePDFProducesNonEmptyOutput(t *testing.T) {
	results := []sweep.CellResult{
		{
			Cell: sweep.FeeCoeffCell{UpfrontBaseCoeff: 0, UpfrontRateCoeff: 0},
			Runs: []result.Result{
				{Stats: result.Stats{NumSent: 10, NumReachedReceiver: 8, NumFailed: 2}, Revenues: map[network.Node]float64{"A": 1.5}},
			},
			Shard: "shard-0",
		},
	}

	g := NewGenerator("Sweep Report")
	data, err := g.GeneratePDF(results)
	if err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PDF bytes")
	}
	if data[0] != '%' {
		t.Fatalf("expected PDF magic header, got first byte %q", data[0])
	}
}

func TestSummarizeHandlesZeroRuns(t *testing.T) {
	s := summarize(sweep.CellResult{Cell: sweep.FeeCoeffCell{}, Runs: nil})
	if s.numRuns != 0 {
		t.Fatalf("expected 0 runs, got %d", s.numRuns)
	}
}
