// Package run persists ranking runs as JSON documents with a TTL.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/resumerank/internal/db"
	"github.com/kailas-cloud/resumerank/internal/domain"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// DefaultTTL keeps runs for a day.
const DefaultTTL = 24 * time.Hour

// store is the consumer interface for runs (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/ranking.RunStore and usecase/export.RunReader.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a run repository. ttl <= 0 uses DefaultTTL.
func New(s store, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repo{store: s, ttl: ttl}
}

// Save stores the list under its run id, replacing any previous value.
func (r *Repo) Save(ctx context.Context, list domrank.RankedList) error {
	data, err := json.Marshal(toDTO(list))
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	key := runKey(list.RunID())
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get loads a run by id.
func (r *Repo) Get(ctx context.Context, runID string) (domrank.RankedList, error) {
	key := runKey(runID)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrank.RankedList{}, domain.ErrRunNotFound
		}
		return domrank.RankedList{}, fmt.Errorf("get %s: %w", key, err)
	}

	var dto runDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domrank.RankedList{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return fromDTO(dto), nil
}

// Delete removes a run. Deleting a missing run is not an error.
func (r *Repo) Delete(ctx context.Context, runID string) error {
	key := runKey(runID)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func runKey(id string) string {
	return domain.KeyPrefix + "run:" + id
}
