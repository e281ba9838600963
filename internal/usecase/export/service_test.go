package export

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domfb "github.com/kailas-cloud/resumerank/internal/domain/feedback"
	"github.com/kailas-cloud/resumerank/internal/domain/keyword"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	"github.com/kailas-cloud/resumerank/internal/usecase/feedback"
)

type mapRuns map[string]domrank.RankedList

func (m mapRuns) Get(_ context.Context, id string) (domrank.RankedList, error) {
	l, ok := m[id]
	if !ok {
		return domrank.RankedList{}, domain.ErrRunNotFound
	}
	return l, nil
}

type recordingWorkbook struct{ rows []domrank.Row }

func (w *recordingWorkbook) Write(out io.Writer, rows []domrank.Row) error {
	w.rows = rows
	_, err := io.WriteString(out, "xlsx")
	return err
}

type recordingSheets struct {
	rows []domrank.Row
	at   time.Time
	err  error
}

func (s *recordingSheets) Append(_ context.Context, rows []domrank.Row, at time.Time) (int, error) {
	s.rows, s.at = rows, at
	return len(rows), s.err
}

type recordingRenderer struct{ texts []domfb.Text }

func (r *recordingRenderer) Render(texts ...domfb.Text) ([]byte, error) {
	r.texts = texts
	return []byte("%PDF-"), nil
}

func sampleList() domrank.RankedList {
	kw := keyword.NewSet("python", "sql")
	return domrank.NewRankedList(domrank.ListParams{RunID: "run-1", Weight: 0.5, Keywords: kw}, []domrank.Result{
		domrank.NewResult(domrank.ResultParams{DocumentID: "a", Similarity: 0.2, Matched: keyword.NewSet("python"), Missing: keyword.NewSet("sql")}, 0.5),
		domrank.NewResult(domrank.ResultParams{DocumentID: "b", Similarity: 0.9, Matched: kw}, 0.5),
	})
}

func newService() (*Service, *recordingWorkbook, *recordingSheets, *recordingRenderer) {
	wb, sh, rd := &recordingWorkbook{}, &recordingSheets{}, &recordingRenderer{}
	svc := New(mapRuns{"run-1": sampleList()}, feedback.New()).
		WithWorkbook(wb).WithSheets(sh).WithRenderer(rd).
		WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) })
	return svc, wb, sh, rd
}

func TestRunWorkbook(t *testing.T) {
	svc, wb, _, _ := newService()
	out, err := svc.RunWorkbook(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "xlsx" {
		t.Errorf("unexpected output %q", out)
	}
	if len(wb.rows) != 2 || wb.rows[0].DocumentID != "b" || wb.rows[0].Rank != 1 {
		t.Errorf("rows must be in rank order: %+v", wb.rows)
	}
}

func TestRunToSheet(t *testing.T) {
	svc, _, sh, _ := newService()
	n, err := svc.RunToSheet(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || sh.at.Year() != 2024 {
		t.Errorf("unexpected append: n=%d at=%v", n, sh.at)
	}

	sh.err = errors.New("quota")
	if _, err = svc.RunToSheet(context.Background(), "run-1"); err == nil {
		t.Error("expected append error")
	}
}

func TestRunFeedbackDocument(t *testing.T) {
	svc, _, _, rd := newService()
	if _, err := svc.RunFeedbackDocument(context.Background(), "run-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rd.texts) != 2 || rd.texts[0].Title != "Feedback for b" || rd.texts[1].Title != "Feedback for a" {
		t.Errorf("unexpected feedback order: %+v", rd.texts)
	}
}

func TestCandidateFeedback(t *testing.T) {
	svc, _, _, rd := newService()
	fb, err := svc.CandidateFeedback(context.Background(), "run-1", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(fb.String(), "Missing keywords (skills or terms): sql.") {
		t.Errorf("unexpected feedback:\n%s", fb.String())
	}

	if _, err = svc.CandidateFeedbackDocument(context.Background(), "run-1", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rd.texts) != 1 || rd.texts[0].DocumentID != "a" {
		t.Errorf("expected a single candidate rendered, got %+v", rd.texts)
	}

	if _, err = svc.CandidateFeedback(context.Background(), "run-1", "zzz"); !errors.Is(err, domain.ErrCandidateNotFound) {
		t.Errorf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestMissingRun(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()
	checks := map[string]error{}
	_, checks["workbook"] = svc.RunWorkbook(ctx, "nope")
	_, checks["sheet"] = svc.RunToSheet(ctx, "nope")
	_, checks["pdf"] = svc.RunFeedbackDocument(ctx, "nope")
	_, checks["candidate"] = svc.CandidateFeedback(ctx, "nope", "a")
	for name, err := range checks {
		if !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("%s: expected ErrRunNotFound, got %v", name, err)
		}
	}
}

func TestUnconfiguredSinks(t *testing.T) {
	svc := New(mapRuns{"run-1": sampleList()}, feedback.New())
	ctx := context.Background()
	checks := map[string]error{}
	_, checks["workbook"] = svc.RunWorkbook(ctx, "run-1")
	_, checks["sheet"] = svc.RunToSheet(ctx, "run-1")
	_, checks["pdf"] = svc.RunFeedbackDocument(ctx, "run-1")
	_, checks["candidate pdf"] = svc.CandidateFeedbackDocument(ctx, "run-1", "a")
	for name, err := range checks {
		if !errors.Is(err, domain.ErrExportUnavailable) {
			t.Errorf("%s: expected ErrExportUnavailable, got %v", name, err)
		}
	}
}

func TestFeedbackDocument_EmptyRun(t *testing.T) {
	svc, _, _, _ := newService()
	empty := domrank.NewRankedList(domrank.ListParams{RunID: "e"}, nil)
	if _, err := svc.FeedbackDocument(empty); !errors.Is(err, domain.ErrCandidateNotFound) {
		t.Errorf("expected ErrCandidateNotFound, got %v", err)
	}
}
