// Package export hands finished ranking runs to the presentation sinks:
// spreadsheets, feedback documents and plain-text feedback.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	"github.com/kailas-cloud/resumerank/internal/metrics"
)

// Service exports runs. Sinks left nil report domain.ErrExportUnavailable.
type Service struct {
	runs     RunReader
	composer Composer
	workbook WorkbookWriter
	sheets   SheetAppender
	renderer Renderer
	now      func() time.Time
}

// New creates an export service over stored runs.
func New(runs RunReader, composer Composer) *Service {
	return &Service{runs: runs, composer: composer, now: time.Now}
}

// WithWorkbook enables xlsx export.
func (s *Service) WithWorkbook(w WorkbookWriter) *Service {
	s.workbook = w
	return s
}

// WithSheets enables spreadsheet append.
func (s *Service) WithSheets(a SheetAppender) *Service {
	s.sheets = a
	return s
}

// WithRenderer enables PDF feedback.
func (s *Service) WithRenderer(r Renderer) *Service {
	s.renderer = r
	return s
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Workbook encodes list as a spreadsheet file.
func (s *Service) Workbook(list domrank.RankedList) ([]byte, error) {
	if s.workbook == nil {
		return nil, fmt.Errorf("workbook: %w", domain.ErrExportUnavailable)
	}
	var buf bytes.Buffer
	err := s.workbook.Write(&buf, list.Rows())
	metrics.ExportsTotal.WithLabelValues("xlsx", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FeedbackDocument renders feedback for every candidate of list, in rank order.
func (s *Service) FeedbackDocument(list domrank.RankedList) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("feedback document: %w", domain.ErrExportUnavailable)
	}
	if list.Len() == 0 {
		return nil, fmt.Errorf("feedback document: run %s has no candidates: %w", list.RunID(), domain.ErrCandidateNotFound)
	}
	out, err := s.renderer.Render(s.composer.ComposeAll(list)...)
	metrics.ExportsTotal.WithLabelValues("pdf", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("render feedback: %w", err)
	}
	return out, nil
}

// AppendToSheet pushes list to the hosted spreadsheet and returns the rows written.
func (s *Service) AppendToSheet(ctx context.Context, list domrank.RankedList) (int, error) {
	if s.sheets == nil {
		return 0, fmt.Errorf("spreadsheet: %w", domain.ErrExportUnavailable)
	}
	n, err := s.sheets.Append(ctx, list.Rows(), s.now())
	metrics.ExportsTotal.WithLabelValues("sheets", metrics.Status(err)).Inc()
	if err != nil {
		return 0, fmt.Errorf("append rows: %w", err)
	}
	return n, nil
}

// RunWorkbook exports a stored run as xlsx.
func (s *Service) RunWorkbook(ctx context.Context, runID string) ([]byte, error) {
	list, err := s.load(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.Workbook(list)
}

// RunFeedbackDocument renders the combined feedback PDF of a stored run.
func (s *Service) RunFeedbackDocument(ctx context.Context, runID string) ([]byte, error) {
	list, err := s.load(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.FeedbackDocument(list)
}

// RunToSheet appends a stored run to the hosted spreadsheet.
func (s *Service) RunToSheet(ctx context.Context, runID string) (int, error) {
	list, err := s.load(ctx, runID)
	if err != nil {
		return 0, err
	}
	return s.AppendToSheet(ctx, list)
}

// CandidateFeedback returns the feedback of one candidate of a stored run.
func (s *Service) CandidateFeedback(ctx context.Context, runID, documentID string) (domfb.Text, error) {
	list, err := s.load(ctx, runID)
	if err != nil {
		return domfb.Text{}, err
	}
	r, ok := list.Result(documentID)
	if !ok {
		return domfb.Text{}, fmt.Errorf("document %q in run %s: %w", documentID, runID, domain.ErrCandidateNotFound)
	}
	return s.composer.Compose(r), nil
}

// CandidateFeedbackDocument renders one candidate's feedback as a document.
func (s *Service) CandidateFeedbackDocument(ctx context.Context, runID, documentID string) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("feedback document: %w", domain.ErrExportUnavailable)
	}
	fb, err := s.CandidateFeedback(ctx, runID, documentID)
	if err != nil {
		return nil, err
	}
	out, err := s.renderer.Render(fb)
	metrics.ExportsTotal.WithLabelValues("pdf", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("render feedback: %w", err)
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, runID string) (domrank.RankedList, error) {
	if s.runs == nil {
		return domrank.RankedList{}, fmt.Errorf("run %q: %w", runID, domain.ErrRunNotFound)
	}
	list, err := s.runs.Get(ctx, runID)
	if err != nil {
		return domrank.RankedList{}, fmt.Errorf("load run %q: %w", runID, err)
	}
	return list, nil
}
