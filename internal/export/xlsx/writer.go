// Package xlsx writes ranking results as an Excel workbook with a score chart.
package xlsx

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "Ranking"

var header = []any{
	"Rank", "Resume Name", "Composite Score", "Similarity Score",
	"Keyword Coverage", "Matched Keywords", "Missing Keywords", "Degraded",
}

// Writer renders ranked rows into an xlsx workbook.
type Writer struct {
	sheet string
}

// New creates a Writer. An empty sheet name falls back to DefaultSheet.
func New(sheet string) *Writer {
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Writer{sheet: sheet}
}

// Sheet returns the worksheet name rows are written to.
func (w *Writer) Sheet() string { return w.sheet }

// Write encodes rows (already in rank order) to out. Scores are rounded to 4 places.
func (w *Writer) Write(out io.Writer, rows []domrank.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err = f.SetRowStyle(w.sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		cell, cerr := excelize.CoordinatesToCellName(1, i+2)
		if cerr != nil {
			return fmt.Errorf("cell name: %w", cerr)
		}
		values := []any{
			r.Rank,
			r.DocumentID,
			round4(r.CompositeScore),
			round4(r.SimilarityScore),
			round4(r.Coverage),
			strings.Join(r.MatchedKeywords, ", "),
			strings.Join(r.MissingKeywords, ", "),
			r.Degraded,
		}
		if err = f.SetSheetRow(w.sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err = f.SetColWidth(w.sheet, "B", "B", 32); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err = f.SetColWidth(w.sheet, "F", "G", 48); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if len(rows) > 0 {
		if err = w.addChart(f, len(rows)); err != nil {
			return err
		}
	}

	if err = f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (w *Writer) addChart(f *excelize.File, n int) error {
	last := n + 1
	chart := &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$C$1", w.sheet),
			Categories: fmt.Sprintf("'%s'!$B$2:$B$%d", w.sheet, last),
			Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", w.sheet, last),
		}},
		Title: []excelize.RichTextRun{{Text: "Resume vs Job Description Matching"}},
		Legend: excelize.ChartLegend{
			Position: "none",
		},
	}
	if err := f.AddChart(w.sheet, "J2", chart); err != nil {
		return fmt.Errorf("add chart: %w", err)
	}
	return nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
