package resumerank

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// termEmbedder maps text to term presence over a tiny vocabulary.
type termEmbedder struct {
	err       error
	healthErr error
}

func (e *termEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	if e.err != nil {
		return EmbeddingResult{}, e.err
	}
	lower := strings.ToLower(text)
	vec := make([]float32, 0, 5)
	for _, term := range []string{"python", "sql", "docker", "java"} {
		if strings.Contains(lower, term) {
			vec = append(vec, 1)
		} else {
			vec = append(vec, 0)
		}
	}
	vec = append(vec, 0.1)
	return EmbeddingResult{Embedding: vec, TotalTokens: 3}, nil
}

func (e *termEmbedder) HealthCheck(context.Context) error { return e.healthErr }

const jobText = "Senior engineer with Python, SQL and Docker experience."

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithEmbedder(&termEmbedder{}, "")}, opts...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func testDocuments() []Document {
	return []Document{
		{ID: "java.txt", Text: "Java developer, Spring and Maven."},
		{ID: "python.txt", Text: "Python engineer. SQL, Docker, Kubernetes."},
	}
}

func TestNew_RequiresEmbedder(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error without embedder")
	}
}

func TestNew_InvalidWeight(t *testing.T) {
	_, err := New(context.Background(), WithEmbedder(&termEmbedder{}, ""), WithWeight(1.5))
	if !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
}

func TestRank(t *testing.T) {
	c := newTestClient(t)

	got, err := c.Rank(context.Background(), RankRequest{JobDescription: jobText, Documents: testDocuments()})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if got.RunID == "" {
		t.Error("expected a run id")
	}
	if len(got.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got.Results))
	}
	top := got.Results[0]
	if top.DocumentID != "python.txt" || top.Rank != 1 {
		t.Errorf("expected python.txt first, got %+v", top)
	}
	if top.CompositeScore < got.Results[1].CompositeScore {
		t.Error("results must be ordered by composite score")
	}
	if len(top.MatchedKeywords) == 0 {
		t.Error("expected matched keywords for the best candidate")
	}
	if got.Weight != 0.5 {
		t.Errorf("expected default weight 0.5, got %v", got.Weight)
	}
	if got.EmbeddingTokens != 9 {
		t.Errorf("expected 9 tokens (job + 2 resumes), got %d", got.EmbeddingTokens)
	}
}

func TestRank_Errors(t *testing.T) {
	bad := 2.0
	tests := []struct {
		name string
		emb  *termEmbedder
		req  RankRequest
		want error
	}{
		{"empty job", &termEmbedder{}, RankRequest{JobDescription: "  ", Documents: testDocuments()}, ErrEmptyJobDescription},
		{"invalid weight", &termEmbedder{}, RankRequest{JobDescription: jobText, Documents: testDocuments(), Weight: &bad}, ErrInvalidWeight},
		{
			"duplicate id", &termEmbedder{},
			RankRequest{JobDescription: jobText, Documents: []Document{{ID: "a", Text: "x"}, {ID: "a", Text: "y"}}},
			ErrInvalidDocument,
		},
		{"provider down", &termEmbedder{err: errors.New("boom")}, RankRequest{JobDescription: jobText, Documents: testDocuments()}, ErrEmbeddingProviderError},
		{"quota", &termEmbedder{err: ErrEmbeddingQuotaExceeded}, RankRequest{JobDescription: jobText, Documents: testDocuments()}, ErrEmbeddingQuotaExceeded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(context.Background(), WithEmbedder(tc.emb, ""))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = c.Rank(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGetAndExports(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ranked, err := c.Rank(ctx, RankRequest{JobDescription: jobText, Documents: testDocuments()})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	stored, err := c.Get(ctx, ranked.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Results[0].DocumentID != ranked.Results[0].DocumentID {
		t.Error("stored run must keep the order")
	}

	xlsx, err := c.Workbook(ctx, ranked.RunID)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	if !bytes.HasPrefix(xlsx, []byte("PK")) {
		t.Error("workbook must be a zip archive")
	}

	pdf, err := c.FeedbackPDF(ctx, ranked.RunID)
	if err != nil {
		t.Fatalf("FeedbackPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("feedback must be a PDF")
	}

	fb, err := c.CandidateFeedback(ctx, ranked.RunID, "python.txt")
	if err != nil {
		t.Fatalf("CandidateFeedback: %v", err)
	}
	if fb.DocumentID != "python.txt" || !strings.Contains(fb.String(), "Composite score") {
		t.Errorf("unexpected feedback: %+v", fb)
	}

	if _, err := c.CandidateFeedbackPDF(ctx, ranked.RunID, "python.txt"); err != nil {
		t.Fatalf("CandidateFeedbackPDF: %v", err)
	}
	if _, err := c.CandidateFeedback(ctx, ranked.RunID, "nobody"); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("expected ErrCandidateNotFound, got %v", err)
	}

	if err := c.Delete(ctx, ranked.RunID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, ranked.RunID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound after delete, got %v", err)
	}
}

func TestMemoryRunsEviction(t *testing.T) {
	c := newTestClient(t, WithMemoryRuns(1))
	ctx := context.Background()

	first, err := c.Rank(ctx, RankRequest{JobDescription: jobText, Documents: testDocuments()})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if _, err := c.Rank(ctx, RankRequest{JobDescription: jobText, Documents: testDocuments()}); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if _, err := c.Workbook(ctx, first.RunID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected the first run to be evicted, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)
	if rep := c.Health(context.Background()); rep.Status != HealthOK {
		t.Errorf("expected ok, got %+v", rep)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping in memory mode: %v", err)
	}

	down, err := New(context.Background(), WithEmbedder(&termEmbedder{healthErr: errors.New("down")}, ""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rep := down.Health(context.Background())
	if rep.Status != HealthError || rep.Checks["embedding"] != "error" {
		t.Errorf("expected embedding error, got %+v", rep)
	}
}

func TestObserver_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestClient(t, WithPrometheus(reg), WithLogger(logger))
	ctx := context.Background()
	if _, err := c.Rank(ctx, RankRequest{JobDescription: jobText, Documents: testDocuments()}); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	_, _ = c.Get(ctx, "missing")

	m := c.obs.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues("rank", "ok")); got != 1 {
		t.Errorf("expected 1 ok rank, got %v", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("get", "error")); got != 1 {
		t.Errorf("expected 1 failed get, got %v", got)
	}
	if got := testutil.ToFloat64(m.documents); got != 2 {
		t.Errorf("expected 2 ranked documents, got %v", got)
	}
	if !strings.Contains(buf.String(), "op=get") || !strings.Contains(buf.String(), "operation failed") {
		t.Errorf("expected a failure log line, got %q", buf.String())
	}

	// A second client on the same registry reuses the collectors.
	again := newTestClient(t, WithPrometheus(reg))
	if again.obs.metrics.operations != m.operations {
		t.Error("expected collectors to be reused")
	}
}
