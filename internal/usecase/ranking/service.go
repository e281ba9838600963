// Package ranking runs the ranking pass: it prepares texts, scores every resume against
// the job description and orders the candidates.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/domain/keyword"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	"github.com/kailas-cloud/resumerank/internal/domain/text"
	logpkg "github.com/kailas-cloud/resumerank/internal/logger"
	"github.com/kailas-cloud/resumerank/internal/metrics"
)

const (
	// DefaultWeight balances similarity and keyword coverage equally.
	DefaultWeight = 0.5
	// DefaultWorkers bounds concurrent embedding calls per run.
	DefaultWorkers = 4
	// PreviewLength is how many runes of each resume a result keeps for display.
	PreviewLength = 3000
)

// Request is one ranking run. Zero values fall back to the service defaults.
type Request struct {
	JobDescription  string
	Documents       []domrank.Input
	Weight          *float64
	MaxKeywords     int
	PartialOnCancel *bool
}

// Service ranks resumes against a job description.
type Service struct {
	scorer          Scorer
	analyzer        KeywordAnalyzer
	store           RunStore
	logger          *zap.Logger
	weight          float64
	workers         int
	partialOnCancel bool
	now             func() time.Time
	newID           func() string
}

// New creates a ranking service.
func New(scorer Scorer, analyzer KeywordAnalyzer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scorer:   scorer,
		analyzer: analyzer,
		logger:   logger,
		weight:   DefaultWeight,
		workers:  DefaultWorkers,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithWeight sets the default similarity weight. Values outside [0, 1] are ignored.
func (s *Service) WithWeight(w float64) *Service {
	if validWeight(w) {
		s.weight = w
	}
	return s
}

// WithWorkers sets the embedding worker pool size.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithPartialOnCancel makes a cancelled run return the documents scored so far.
func (s *Service) WithPartialOnCancel(v bool) *Service {
	s.partialOnCancel = v
	return s
}

// WithRunStore enables persistence of finished runs.
func (s *Service) WithRunStore(store RunStore) *Service {
	s.store = store
	return s
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides run id generation (tests).
func (s *Service) WithIDGenerator(newID func() string) *Service {
	s.newID = newID
	return s
}

// Weight returns the default similarity weight.
func (s *Service) Weight() float64 { return s.weight }

// Rank orders documents against job with the given similarity weight.
func (s *Service) Rank(
	ctx context.Context, job string, documents []domrank.Input, weight float64,
) (domrank.RankedList, error) {
	return s.Run(ctx, Request{JobDescription: job, Documents: documents, Weight: &weight})
}

// Run executes a ranking run. Configuration problems (weight, job description, ids,
// job embedding) fail the run before any resume is scored; a resume that cannot be
// embedded stays in the list as degraded with similarity 0.
func (s *Service) Run(ctx context.Context, req Request) (domrank.RankedList, error) {
	start := s.now()
	list, err := s.run(ctx, req)
	metrics.RankingRunDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil && list.Partial():
		metrics.RankingRunsTotal.WithLabelValues("partial").Inc()
	case err == nil:
		metrics.RankingRunsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.RankingRunsTotal.WithLabelValues("canceled").Inc()
	default:
		metrics.RankingRunsTotal.WithLabelValues("error").Inc()
	}
	if err != nil {
		return domrank.RankedList{}, err
	}

	if s.store != nil {
		if serr := s.store.Save(ctx, list); serr != nil {
			logpkg.FromContextOr(ctx, s.logger).Warn("Failed to persist ranking run",
				zap.String("run_id", list.RunID()),
				zap.Error(serr),
			)
		}
	}
	return list, nil
}

func (s *Service) run(ctx context.Context, req Request) (domrank.RankedList, error) {
	weight := s.weight
	if req.Weight != nil {
		weight = *req.Weight
	}
	if !validWeight(weight) {
		return domrank.RankedList{}, fmt.Errorf("weight %v: %w", weight, domain.ErrInvalidWeight)
	}
	partial := s.partialOnCancel
	if req.PartialOnCancel != nil {
		partial = *req.PartialOnCancel
	}

	jobText, err := text.Prepare(req.JobDescription)
	if err != nil {
		return domrank.RankedList{}, fmt.Errorf("job description: %w", domain.ErrEmptyJobDescription)
	}
	if err = domrank.ValidateInputs(req.Documents); err != nil {
		return domrank.RankedList{}, fmt.Errorf("validate documents: %w", err)
	}

	keywords := s.analyzer.Extract(jobText, req.MaxKeywords)
	job := domrank.NewJobDescription(domrank.NewDocument("job", jobText), keywords)
	// No documents means nothing to compare against, so the provider is not called.
	if len(req.Documents) > 0 {
		jobVec, err := s.scorer.EmbedJob(ctx, jobText)
		if err != nil {
			return domrank.RankedList{}, fmt.Errorf("embed job description: %w", err)
		}
		job = job.WithEmbedding(jobVec)
	}

	runID := s.newID()
	log := logpkg.FromContextOr(ctx, s.logger).With(zap.String("run_id", runID))
	log.Info("Ranking run started",
		zap.Int("documents", len(req.Documents)),
		zap.Int("keywords", keywords.Len()),
		zap.Float64("weight", weight),
	)

	slots := make([]*domrank.Result, len(req.Documents))
	g := &errgroup.Group{}
	g.SetLimit(s.workers)
	for i, in := range req.Documents {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, ok := s.scoreDocument(ctx, log, job, in, weight)
			if ok {
				slots[i] = &res
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]domrank.Result, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	params := domrank.ListParams{
		RunID:     runID,
		Weight:    weight,
		Keywords:  keywords,
		CreatedAt: s.now().UnixMilli(),
	}
	if len(results) < len(req.Documents) {
		cerr := ctx.Err()
		if cerr == nil {
			cerr = context.Canceled
		}
		if !partial {
			log.Warn("Ranking run cancelled", zap.Int("scored", len(results)))
			return domrank.RankedList{}, fmt.Errorf("ranking run %s: %w", runID, cerr)
		}
		params.Partial = true
		log.Warn("Ranking run cancelled, returning partial list",
			zap.Int("scored", len(results)),
			zap.Int("documents", len(req.Documents)),
		)
	}

	list := domrank.NewRankedList(params, results)
	log.Info("Ranking run completed",
		zap.Int("ranked", list.Len()),
		zap.Int("degraded", list.DegradedCount()),
		zap.Bool("partial", list.Partial()),
	)
	return list, nil
}

// scoreDocument returns ok=false only when the run was cancelled mid-document.
func (s *Service) scoreDocument(
	ctx context.Context, log *zap.Logger,
	job domrank.JobDescription, in domrank.Input, weight float64,
) (domrank.Result, bool) {
	docText, err := text.Prepare(in.Text)
	if err != nil {
		return s.emptyDocument(log, job.Keywords(), in.ID, weight, err), true
	}

	matched, missing := s.analyzer.Match(job.Keywords(), docText)
	params := domrank.ResultParams{
		DocumentID: in.ID,
		Matched:    matched,
		Missing:    missing,
		Preview:    text.Preview(docText, PreviewLength),
	}

	vec, err := s.scorer.Embed(ctx, docText, len(job.Embedding()))
	if err != nil {
		if ctx.Err() != nil {
			return domrank.Result{}, false
		}
		params.Degraded = true
		params.DegradedReason = err.Error()
		log.Warn("Document degraded", zap.String("document_id", in.ID), zap.Error(err))
		metrics.RankingDocumentsTotal.WithLabelValues("degraded").Inc()
		return domrank.NewResult(params, weight), true
	}

	doc := domrank.NewDocument(in.ID, docText).WithEmbedding(vec)
	params.Similarity = s.scorer.Score(job.Embedding(), doc.Embedding())
	metrics.RankingDocumentsTotal.WithLabelValues("ok").Inc()
	return domrank.NewResult(params, weight), true
}

// emptyDocument keeps a resume with no usable text: every keyword is missing.
func (s *Service) emptyDocument(
	log *zap.Logger, keywords keyword.Set, id string, weight float64, cause error,
) domrank.Result {
	log.Warn("Document degraded", zap.String("document_id", id), zap.Error(cause))
	metrics.RankingDocumentsTotal.WithLabelValues("degraded").Inc()
	return domrank.NewResult(domrank.ResultParams{
		DocumentID:     id,
		Missing:        keywords,
		Degraded:       true,
		DegradedReason: cause.Error(),
	}, weight)
}

// Get returns a persisted run.
func (s *Service) Get(ctx context.Context, runID string) (domrank.RankedList, error) {
	if s.store == nil {
		return domrank.RankedList{}, fmt.Errorf("run %q: %w", runID, domain.ErrRunNotFound)
	}
	list, err := s.store.Get(ctx, runID)
	if err != nil {
		return domrank.RankedList{}, fmt.Errorf("get run: %w", err)
	}
	return list, nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && w >= 0 && w <= 1
}
