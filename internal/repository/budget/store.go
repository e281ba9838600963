// Package budget persists embedding token counters per budget window.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/resumerank/internal/db"
)

// Budget windows as they appear in counter keys:
// resumerank:budget:{provider}:{window}:{date}.
const (
	WindowDaily   = "daily"
	WindowMonthly = "monthly"
)

// store is the consumer interface for budget counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrWithExpiry(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}

// Store keeps one counter per provider and window. Each counter expires some
// time after its window closes; the first write fixes the deadline.
type Store struct {
	store store
	ttl   map[string]time.Duration
}

// New creates a budget store. dailyTTL and monthTTL should outlive their
// window (48h and 62 days in the default config).
func New(s store, dailyTTL, monthTTL time.Duration) *Store {
	return &Store{
		store: s,
		ttl: map[string]time.Duration{
			WindowDaily:   dailyTTL,
			WindowMonthly: monthTTL,
		},
	}
}

// IncrBy adds val to the counter behind key.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	ttl, err := s.ttlFor(key)
	if err != nil {
		return err
	}
	if _, err := s.store.IncrWithExpiry(ctx, key, val, ttl); err != nil {
		return fmt.Errorf("budget incr %s: %w", key, err)
	}
	return nil
}

// Get returns the current counter value, 0 when the window has no usage yet.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("budget get %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("budget get %s: parse %q: %w", key, data, err)
	}
	return val, nil
}

func (s *Store) ttlFor(key string) (time.Duration, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("budget key %q: missing window", key)
	}
	ttl, ok := s.ttl[parts[len(parts)-2]]
	if !ok {
		return 0, fmt.Errorf("budget key %q: unknown window %q", key, parts[len(parts)-2])
	}
	return ttl, nil
}
