// Package render lays out candidate feedback as PDF documents.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
)

// ErrNothingToRender is returned when Render gets no feedback.
var ErrNothingToRender = errors.New("render: no feedback to render")

const (
	margin     = 18.0 // mm
	lineHeight = 5.5  // mm
)

// PDF renders feedback texts on US Letter pages: one candidate per page (or more
// when the text overflows), each starting with a bold title.
type PDF struct{}

// NewPDF creates a PDF renderer.
func NewPDF() *PDF { return &PDF{} }

// ContentType is the MIME type of Render output.
func (*PDF) ContentType() string { return "application/pdf" }

// Render lays out texts in order and returns the encoded document.
func (*PDF) Render(texts ...domfb.Text) ([]byte, error) {
	if len(texts) == 0 {
		return nil, ErrNothingToRender
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreator("resumerank", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, t := range texts {
		pdf.AddPage()
		if t.Title != "" {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(t.Title), "", "L", false)
			pdf.Ln(2)
		}
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range t.Lines {
			if line == "" {
				pdf.Ln(lineHeight)
				continue
			}
			pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
