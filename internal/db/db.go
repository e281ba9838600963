package db

import (
	"context"
	"time"
)

// Store is the database facade used by the composition root.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// IncrWithExpiry adds val to a counter and returns the new value. ttl > 0 is set
	// only when the key has no expiry yet, so a window keeps its original deadline.
	IncrWithExpiry(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
	Del(ctx context.Context, key string) error
}
