// Package embcache caches embedding vectors in the key-value store.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/resumerank/internal/db"
	"github.com/kailas-cloud/resumerank/internal/domain"
)

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder caches embeddings keyed by model and text hash.
// Resumes are often re-ranked against several job descriptions, so hits are common.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	keyPrefix  string
	ttl        time.Duration
	dimensions int
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	inflight   singleflight.Group
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	model string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		keyPrefix:  domain.KeyPrefix + "emb_cache:" + model + ":",
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithTTL expires cached vectors after ttl; 0 keeps them forever.
func (c *CachedEmbedder) WithTTL(ttl time.Duration) *CachedEmbedder {
	c.ttl = ttl
	return c
}

// WithDimensions keeps vectors of any other length out of the cache; 0 accepts any length.
func (c *CachedEmbedder) WithDimensions(d int) *CachedEmbedder {
	c.dimensions = d
	return c
}

// shared is one provider result handed to every caller waiting on the same text.
type shared struct {
	result  domain.EmbeddingResult
	claimed atomic.Bool
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner.
// Concurrent misses for the same text share one provider call. The call does not
// inherit any caller's cancellation; each caller stops waiting on its own context.
// Tokens go to the first caller that receives the result, so usage is counted once.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss")

	callCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		result, err := c.inner.Embed(callCtx, text)
		if err != nil {
			return nil, err
		}
		if c.cacheable(result.Embedding) {
			c.putToCache(callCtx, key, result.Embedding)
		}
		return &shared{result: result}, nil
	})

	select {
	case <-ctx.Done():
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", res.Err)
		}
		sh := res.Val.(*shared) //nolint:forcetypeassert // only *shared is stored
		result := sh.result
		if !sh.claimed.CompareAndSwap(false, true) {
			result.PromptTokens, result.TotalTokens = 0, 0
		}
		return result, nil
	}
}

// HealthCheck delegates to the inner embedder.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

// cacheable rejects vectors the scorer would refuse, so a bad provider answer is retried next time.
func (c *CachedEmbedder) cacheable(vec []float32) bool {
	if len(vec) == 0 {
		return false
	}
	if c.dimensions > 0 && len(vec) != c.dimensions {
		return false
	}
	for _, f := range vec {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return c.keyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, vec []float32) {
	data := vectorToCacheBytes(vec)
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
