package resumerank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/db"
	dbRedis "github.com/kailas-cloud/resumerank/internal/db/redis"
	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/export/xlsx"
	"github.com/kailas-cloud/resumerank/internal/render"
	"github.com/kailas-cloud/resumerank/internal/repository/embcache"
	runrepo "github.com/kailas-cloud/resumerank/internal/repository/run"
	exportuc "github.com/kailas-cloud/resumerank/internal/usecase/export"
	feedbackuc "github.com/kailas-cloud/resumerank/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
	keyworduc "github.com/kailas-cloud/resumerank/internal/usecase/keyword"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
	"github.com/kailas-cloud/resumerank/internal/usecase/scoring"
)

const storeReadyTimeout = 10 * time.Second

// runStore is what the client needs from run persistence.
type runStore interface {
	rankinguc.RunStore
	Delete(ctx context.Context, runID string) error
}

// Client ranks resumes in-process. Safe for concurrent use.
type Client struct {
	ranking  *rankinguc.Service
	exports  *exportuc.Service
	composer *feedbackuc.Composer
	health   *healthuc.Service
	runs     runStore
	store    db.Store // nil in memory mode
	obs      *observer
}

// New creates a Client. An embedder is required; a store is optional.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.embedder == nil {
		return nil, errors.New("resumerank: embedder is required (use WithEmbedder)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		store db.Store
		runs  runStore
	)
	if cfg.driver != "" {
		store, err = connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		runs = runrepo.New(store, cfg.runTTL)
	} else {
		runs = runrepo.NewMemory(cfg.memoryRuns)
	}

	document := adaptEmbedder(cfg.embedder)
	query := document
	if cfg.queryEmbedder != nil {
		query = adaptEmbedder(cfg.queryEmbedder)
	}
	if store != nil {
		document = cached(document, store, cfg.model, cfg.cacheTTL, cfg.dimensions)
		if cfg.queryEmbedder != nil {
			query = cached(query, store, cfg.model+":query", cfg.cacheTTL, cfg.dimensions)
		} else {
			query = document
		}
	}

	scorer := scoring.New(document).WithQueryEmbedder(query).WithDimensions(cfg.dimensions)

	analyzer := keyworduc.New()
	if cfg.maxKeywords > 0 {
		analyzer = analyzer.WithMaxKeywords(cfg.maxKeywords)
	}
	ranking := rankinguc.New(scorer, analyzer, zap.NewNop()).
		WithWorkers(cfg.workers).
		WithPartialOnCancel(cfg.partialOnCancel).
		WithRunStore(runs)
	if cfg.weight != nil {
		if !validWeight(*cfg.weight) {
			closeStore(store)
			return nil, fmt.Errorf("resumerank: weight %v: %w", *cfg.weight, domain.ErrInvalidWeight)
		}
		ranking = ranking.WithWeight(*cfg.weight)
	}

	composer := feedbackuc.New().WithMaxListed(cfg.feedbackItems)
	exports := exportuc.New(runs, composer).
		WithWorkbook(xlsx.New(cfg.xlsxSheet)).
		WithRenderer(render.NewPDF())

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		ranking:  ranking,
		exports:  exports,
		composer: composer,
		health:   healthuc.New(pinger, embedderHealth{inner: cfg.embedder}),
		runs:     runs,
		store:    store,
		obs:      obs,
	}, nil
}

func connect(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("resumerank: unsupported driver %q", cfg.driver)
	}
	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
	if err != nil {
		return nil, fmt.Errorf("resumerank: connect %s: %w", cfg.driver, err)
	}
	if err := store.WaitForReady(ctx, storeReadyTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("resumerank: %s not ready: %w", cfg.driver, err)
	}
	return store, nil
}

func cached(e domain.Embedder, store db.KVStore, model string, ttl time.Duration, dim int) domain.Embedder {
	if model == "" {
		model = "default"
	}
	return embcache.New(e, store, model, nil, zap.NewNop()).WithTTL(ttl).WithDimensions(dim)
}

func closeStore(s db.Store) {
	if s != nil {
		s.Close()
	}
}

func validWeight(w float64) bool {
	return w >= 0 && w <= 1
}

// Close releases the store connection, if any.
func (c *Client) Close() {
	closeStore(c.store)
}

// Ping checks the store. Always nil in memory mode.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("resumerank: ping: %w", err)
	}
	return nil
}
