package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"

	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
)

func feedback(id string, lines int) domfb.Text {
	t := domfb.Text{DocumentID: id, Title: "Feedback for " + id}
	for i := range lines {
		if i%5 == 4 {
			t.Lines = append(t.Lines, "")
			continue
		}
		t.Lines = append(t.Lines, "Missing keywords (skills or terms): kubernetes, terraform, grpc.")
	}
	return t
}

func pageCount(t *testing.T, b []byte) int {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("parse pdf: %v", err)
	}
	return r.NumPage()
}

func TestPDF_OnePagePerCandidate(t *testing.T) {
	out, err := NewPDF().Render(feedback("a.pdf", 8), feedback("b.pdf", 8), feedback("c.pdf", 8))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 8)])
	}
	if n := pageCount(t, out); n != 3 {
		t.Errorf("expected 3 pages, got %d", n)
	}
}

func TestPDF_LongFeedbackOverflows(t *testing.T) {
	out, err := NewPDF().Render(feedback("long.docx", 120))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := pageCount(t, out); n < 2 {
		t.Errorf("expected overflow onto a second page, got %d", n)
	}
}

func TestPDF_NonLatinText(t *testing.T) {
	text := domfb.Text{Title: "Feedback for résumé-José.pdf", Lines: []string{"naïve café, 50% coverage"}}
	if _, err := NewPDF().Render(text); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestPDF_Empty(t *testing.T) {
	if _, err := NewPDF().Render(); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("expected ErrNothingToRender, got %v", err)
	}
}
