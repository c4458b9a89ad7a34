// Package report tabulates an engine/sweep run into a PDF table: one row
// per grid cell, showing the unconditional-fee coefficients, the number of
// runs, the stats averaged across that cell's repetitions, and the cell's
// result-store shard. Revenues are not shown in the table.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/s-tikhomirov/jamsim/engine/sweep"
)

// Generator builds sweep-grid PDF reports.
type Generator struct {
	title string
}

// NewGenerator creates a report generator with the given report title.
func NewGenerator(title string) *Generator {
	return &Generator{title: title}
}

// cellSummary is the per-row aggregate computed from one CellResult's runs.
type cellSummary struct {
	cell            sweep.FeeCoeffCell
	numRuns         int
	avgSent         float64
	avgFailed       float64
	avgReached      float64
	avgTotalRevenue float64
}

func summarize(cr sweep.CellResult) cellSummary {
	s := cellSummary{cell: cr.Cell, numRuns: len(cr.Runs)}
	if s.numRuns == 0 {
		return s
	}
	for _, r := range cr.Runs {
		s.avgSent += float64(r.Stats.NumSent)
		s.avgFailed += float64(r.Stats.NumFailed)
		s.avgReached += float64(r.Stats.NumReachedReceiver)
		for _, rev := range r.Revenues {
			if rev > 0 {
				s.avgTotalRevenue += rev
			}
		}
	}
	n := float64(s.numRuns)
	s.avgSent /= n
	s.avgFailed /= n
	s.avgReached /= n
	s.avgTotalRevenue /= n
	return s
}

// GeneratePDF renders one table: one row per grid cell, ordered as given.
func (g *Generator) GeneratePDF(results []sweep.CellResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(16, 100, 180)
	pdf.CellFormat(190, 12, g.title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(190, 8, fmt.Sprintf("%d grid cells", len(results)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(229, 231, 235)
	pdf.CellFormat(28, 8, "Base Coeff", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 8, "Rate Coeff", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 8, "Runs", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 8, "Avg Sent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Avg Reached", "1", 0, "C", true, 0, "")
	pdf.CellFormat(26, 8, "Avg Failed", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 8, "Shard", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, cr := range results {
		s := summarize(cr)
		pdf.CellFormat(28, 7, fmt.Sprintf("%.4g", s.cell.UpfrontBaseCoeff), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 7, fmt.Sprintf("%.4g", s.cell.UpfrontRateCoeff), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 7, fmt.Sprintf("%d", s.numRuns), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 7, fmt.Sprintf("%.1f", s.avgSent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.1f", s.avgReached), "1", 0, "C", false, 0, "")
		pdf.CellFormat(26, 7, fmt.Sprintf("%.1f", s.avgFailed), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 7, cr.Shard, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated %s", time.Now().Format("January 2, 2006 at 3:04 PM")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
