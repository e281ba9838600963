package domain

import (
	"context"
	"sync/atomic"
)

type embeddingUsageKey struct{}

// EmbeddingUsage collects token usage for one ranking request.
// The handler puts it into the context, ranking workers add to it concurrently,
// the handler reads it back for response headers.
type EmbeddingUsage struct {
	totalTokens atomic.Int64
	calls       atomic.Int64
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// AddTokens records one embedding call; cache hits report 0 tokens.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.totalTokens.Add(int64(n))
	u.calls.Add(1)
}

// TotalTokens returns the tokens consumed so far.
func (u *EmbeddingUsage) TotalTokens() int64 {
	if u == nil {
		return 0
	}
	return u.totalTokens.Load()
}

// Calls returns the number of embedding calls recorded.
func (u *EmbeddingUsage) Calls() int64 {
	if u == nil {
		return 0
	}
	return u.calls.Load()
}
