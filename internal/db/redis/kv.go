package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/resumerank/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL stores a value with an expiration. ttl <= 0 stores it without one.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Build()
	if ttl > 0 {
		cmd = s.b().Set().Key(key).Value(string(value)).Ex(ttl).Build()
	}
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// IncrWithExpiry pipelines INCRBY and EXPIRE NX in one round trip.
func (s *Store) IncrWithExpiry(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	incr := s.b().Incrby().Key(key).Increment(val).Build()
	if ttl <= 0 {
		n, err := s.do(ctx, incr).AsInt64()
		if err != nil {
			return 0, &db.Error{Op: db.OpIncrBy, Err: err}
		}
		return n, nil
	}

	expire := s.b().Expire().Key(key).Seconds(max(int64(ttl.Seconds()), 1)).Nx().Build()
	res := s.client.DoMulti(ctx, incr, expire)
	n, err := res[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncrBy, Err: err}
	}
	if err := res[1].Error(); err != nil {
		return n, &db.Error{Op: db.OpExpire, Err: err}
	}
	return n, nil
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
