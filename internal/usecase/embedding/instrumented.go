package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/resumerank/internal/domain"
	logpkg "github.com/kailas-cloud/resumerank/internal/logger"
	"github.com/kailas-cloud/resumerank/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedEmbedder puts the token budget in front of the provider chain and
// logs each resume or job embedding on the caller's logger, so lines carry the
// request and run ids. Transport metrics are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with budget enforcement. budget may be nil.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Embed rejects the call when the budget is spent, otherwise delegates and charges
// the tokens the provider reports. Cache hits report zero tokens and cost nothing.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := logpkg.FromContextOr(ctx, p.logger).With(
		zap.String("provider", p.provider),
		zap.String("model", p.model),
	)

	if err := p.admit(ctx); err != nil {
		log.Warn("Embedding rejected by token budget", zap.Error(err))
		return domain.EmbeddingResult{}, err
	}

	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	took := time.Since(start)
	if err != nil {
		log.Check(failureLevel(err), "Embedding failed").Write(
			zap.Duration("duration", took),
			zap.Int("text_runes", len([]rune(text))),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.charge(result.TotalTokens)
	log.Debug("Embedding completed",
		zap.Duration("duration", took),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return result, nil
}

func (p *InstrumentedEmbedder) admit(ctx context.Context) error {
	if p.budget == nil {
		return nil
	}
	if err := p.budget.Check(ctx); err != nil {
		metrics.EmbeddingErrorsTotal.WithLabelValues(p.provider, p.model, "budget_exceeded").Inc()
		return fmt.Errorf("budget check: %w", err)
	}
	return nil
}

func (p *InstrumentedEmbedder) charge(tokens int) {
	if p.budget == nil || tokens <= 0 {
		return
	}
	p.budget.Record(int64(tokens))
	remaining := metrics.EmbeddingBudgetTokensRemaining
	remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
	remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
}

// failureLevel keeps cancelled runs and provider throttling out of the error log;
// the resume is degraded or the run aborted either way.
func failureLevel(err error) zapcore.Level {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return zapcore.DebugLevel
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// HealthCheck forwards to the inner embedder. Budget state does not affect health.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
