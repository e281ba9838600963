// Package bootstrap assembles the embedding and ranking stack shared by the
// API server and the command-line client.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/config"
	"github.com/kailas-cloud/resumerank/internal/db"
	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/metrics"
	budgetrepo "github.com/kailas-cloud/resumerank/internal/repository/budget"
	"github.com/kailas-cloud/resumerank/internal/repository/embcache"
	"github.com/kailas-cloud/resumerank/internal/resilience"
	openaiEmb "github.com/kailas-cloud/resumerank/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/resumerank/internal/usecase/embedding"
	"github.com/kailas-cloud/resumerank/internal/usecase/scoring"
)

// Embedding is the embedder chain of the active vectorizer.
type Embedding struct {
	Provider   string
	Vectorizer config.VectorizerConfig

	// Document embeds resumes, Query embeds job descriptions.
	Document domain.Embedder
	Query    domain.Embedder

	// Guard reports the circuit breaker state of the provider.
	Guard *resilience.Embedder
	// Budget is nil when the provider has no token limits.
	Budget *embeddinguc.BudgetTracker
}

// NewEmbedding builds the chain provider -> resilience -> cache -> budget -> instruction.
// kv may be nil: the cache is skipped and budget counters stay in memory.
func NewEmbedding(ctx context.Context, cfg *config.Config, kv db.KVStore, logger *zap.Logger) (*Embedding, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	vecCfg, provCfg, err := cfg.ActiveVectorizer()
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	provName := vecCfg.Provider

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Timeout:    time.Duration(provCfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	exec := resilience.NewExecutor(ResilienceConfig(cfg.Resilience), logger)
	guard := resilience.NewEmbedder(base, exec, "embed:"+provName)

	var embedder domain.Embedder = guard
	if kv != nil {
		embedder = embcache.New(guard, kv, vecCfg.Model, metrics.EmbeddingCacheTotal, logger).
			WithTTL(time.Duration(cfg.Storage.EmbeddingCacheTTL) * time.Hour).
			WithDimensions(vecCfg.Dimensions)
	}

	budget := newBudget(ctx, cfg, provName, provCfg.Budget, kv, logger)

	// Pass nil interface (not typed nil pointer) when budget is not configured.
	var checker embeddinguc.BudgetChecker
	if budget != nil {
		checker = budget
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, provName, vecCfg.Model, checker, logger)

	return &Embedding{
		Provider:   provName,
		Vectorizer: vecCfg,
		Document:   withInstruction(embedder, vecCfg.DocumentInstruction),
		Query:      withInstruction(embedder, vecCfg.QueryInstruction),
		Guard:      guard,
		Budget:     budget,
	}, nil
}

// Scorer returns a scorer over the chain, pinned to the configured dimensions.
func (e *Embedding) Scorer() *scoring.Scorer {
	return scoring.New(e.Document).
		WithQueryEmbedder(e.Query).
		WithDimensions(e.Vectorizer.Dimensions)
}

// HealthCheck probes the provider, bypassing budget and breaker.
func (e *Embedding) HealthCheck(ctx context.Context) error {
	if err := e.Guard.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}

// ResilienceConfig maps the config section onto executor settings.
func ResilienceConfig(rc config.ResilienceConfig) resilience.Config {
	out := resilience.DefaultConfig()
	if rc.MaxRetries > 0 {
		out.RetryMaxAttempts = rc.MaxRetries + 1
	}
	if rc.InitialBackoffMs > 0 {
		out.RetryInitialBackoff = time.Duration(rc.InitialBackoffMs) * time.Millisecond
	}
	if rc.MaxBackoffMs > 0 {
		out.RetryMaxBackoff = time.Duration(rc.MaxBackoffMs) * time.Millisecond
	}
	if rc.BreakerEnabled != nil {
		out.BreakerEnabled = *rc.BreakerEnabled
	}
	if rc.BreakerThreshold > 0 {
		out.BreakerMinRequests = rc.BreakerThreshold
	}
	if rc.BreakerTimeoutSec > 0 {
		out.BreakerOpenTimeout = time.Duration(rc.BreakerTimeoutSec) * time.Second
	}
	out.RateLimit = rc.RateLimitPerSec
	if rc.RateBurst > 0 {
		out.RateBurst = rc.RateBurst
	}
	return out
}

func newBudget(
	ctx context.Context, cfg *config.Config, provName string,
	bc config.BudgetConfig, kv db.KVStore, logger *zap.Logger,
) *embeddinguc.BudgetTracker {
	if bc.DailyTokenLimit <= 0 && bc.MonthlyTokenLimit <= 0 {
		return nil
	}
	action := embeddinguc.BudgetActionWarn
	if bc.Action == string(embeddinguc.BudgetActionReject) {
		action = embeddinguc.BudgetActionReject
	}
	budget := embeddinguc.NewBudgetTracker(provName, bc.DailyTokenLimit, bc.MonthlyTokenLimit, action, logger)
	if kv != nil {
		budget.WithStore(ctx, budgetrepo.New(kv,
			time.Duration(cfg.Storage.BudgetDailyTTL)*time.Hour,
			time.Duration(cfg.Storage.BudgetMonthlyTTL)*time.Hour,
		))
	}
	return budget
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewPrefixedEmbedder(e, instruction)
}
