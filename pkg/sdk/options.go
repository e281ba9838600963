package resumerank

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis" or "" for in-memory
	addrs    []string
	password string

	embedder      Embedder
	queryEmbedder Embedder
	model         string
	dimensions    int

	weight          *float64
	maxKeywords     int
	workers         int
	partialOnCancel bool
	feedbackItems   int

	runTTL     time.Duration
	memoryRuns int
	cacheTTL   time.Duration
	xlsxSheet  string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey persists runs and caches embeddings in a Valkey instance.
// Without a store, runs are kept in memory.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis persists runs and caches embeddings in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the embedding provider. Required.
// model names the embedding cache namespace; leave it empty without a store.
func WithEmbedder(e Embedder, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
		c.model = model
	})
}

// WithQueryEmbedder embeds job descriptions with a separate embedder,
// for asymmetric models that expect a query instruction.
func WithQueryEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryEmbedder = e
	})
}

// WithDimensions rejects vectors of any other length.
// Default: the length of the job description vector of each run.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithWeight sets the default similarity weight in [0, 1]. Default: 0.5.
func WithWeight(w float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.weight = &w
	})
}

// WithMaxKeywords caps the keywords extracted from a job description. Default: 20.
func WithMaxKeywords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxKeywords = n
	})
}

// WithWorkers bounds concurrent embedding calls per run. Default: 4.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithPartialOnCancel returns the resumes scored so far when a run is cancelled
// instead of failing it.
func WithPartialOnCancel(v bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.partialOnCancel = v
	})
}

// WithFeedbackItems caps the keywords listed per feedback sentence.
func WithFeedbackItems(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.feedbackItems = n
	})
}

// WithRunTTL sets how long a store keeps runs. Default: 24h.
func WithRunTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.runTTL = ttl
	})
}

// WithMemoryRuns bounds the runs kept in memory without a store. Default: 100.
func WithMemoryRuns(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.memoryRuns = n
	})
}

// WithEmbeddingCacheTTL expires cached embeddings. Default: never.
func WithEmbeddingCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithSheetName names the worksheet of exported workbooks.
func WithSheetName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.xlsxSheet = name
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
