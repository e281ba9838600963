package resilience

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

// Embedder decorates a domain.Embedder with rate limiting, retries and a breaker.
type Embedder struct {
	inner     domain.Embedder
	exec      *Executor
	limiter   *rate.Limiter
	operation string
}

// NewEmbedder wraps inner. operation names the breaker, usually "embed:<provider>".
func NewEmbedder(inner domain.Embedder, exec *Executor, operation string) *Embedder {
	e := &Embedder{inner: inner, exec: exec, operation: operation}
	if exec.cfg.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(exec.cfg.RateLimit), exec.cfg.RateBurst)
	}
	return e
}

// Embed waits for a rate slot and calls the inner embedder through the executor.
// An open breaker surfaces as domain.ErrEmbeddingProviderError.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var res domain.EmbeddingResult
	err := e.exec.Execute(ctx, e.operation, func(ctx context.Context) error {
		if e.limiter != nil {
			if werr := e.limiter.Wait(ctx); werr != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("%w: %w", domain.ErrRateLimited, werr)
			}
		}
		r, ierr := e.inner.Embed(ctx, text)
		if ierr != nil {
			return ierr //nolint:wrapcheck // classified and wrapped below
		}
		res = r
		return nil
	}, ClassifyEmbeddingError)
	if err != nil {
		if IsCircuitOpen(err) {
			return domain.EmbeddingResult{}, fmt.Errorf("%w: circuit open: %w", domain.ErrEmbeddingProviderError, err)
		}
		return domain.EmbeddingResult{}, err
	}
	return res, nil
}

// IsCircuitOpen reports whether the breaker currently rejects calls.
func (e *Embedder) IsCircuitOpen() bool {
	return e.exec.BreakerState(e.operation) == gobreaker.StateOpen
}

// HealthCheck bypasses the breaker so probes see the provider's real state.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // delegating
	}
	return nil
}

// ClassifyEmbeddingError retries transient provider failures and rate limits.
// Budget exhaustion and cancellation are final and do not count against the breaker.
func ClassifyEmbeddingError(err error) ErrorClassification {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorClassification{Retryable: false, RecordFailure: false}
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		return ErrorClassification{Retryable: false, RecordFailure: false}
	case errors.Is(err, domain.ErrRateLimited):
		return ErrorClassification{Retryable: true, RecordFailure: false}
	default:
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}
}
