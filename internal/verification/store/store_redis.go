package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"vouch/internal/platform/metrics"
	"vouch/internal/verification/models"
	dErrors "vouch/pkg/domain-errors"
)

// Redis key prefix for verification records.
const recordKeyPrefix = "verified:user:"

// RedisStore persists records as JSON documents in Redis. This is the
// default production backend.
type RedisStore struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

// NewRedis constructs a Redis-backed store. The client lifecycle is managed
// by the caller.
func NewRedis(client *redis.Client, m *metrics.Metrics) *RedisStore {
	return &RedisStore{client: client, metrics: m}
}

// FindAny resolves the candidate-key disjunction with a single MGET and
// returns the record for the first key that holds a value.
func (s *RedisStore) FindAny(ctx context.Context, keys ...string) (models.Record, error) {
	if len(keys) == 0 {
		return models.Record{}, ErrNotFound
	}
	start := time.Now()
	defer func() {
		s.metrics.ObserveStoreOp("redis", "find", float64(time.Since(start).Microseconds())/1000.0)
	}()

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = recordKeyPrefix + key
	}

	values, err := s.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return models.Record{}, dErrors.Wrap(dErrors.CodeUnavailable, "redis mget", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec models.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return models.Record{}, dErrors.Wrap(dErrors.CodeInternal, "decode record", err)
		}
		return rec, nil
	}
	return models.Record{}, ErrNotFound
}

func (s *RedisStore) Save(ctx context.Context, rec models.Record) error {
	start := time.Now()
	defer func() {
		s.metrics.ObserveStoreOp("redis", "save", float64(time.Since(start).Microseconds())/1000.0)
	}()

	raw, err := json.Marshal(rec)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "encode record", err)
	}
	// Records have no TTL; removal is explicit via Delete.
	if err := s.client.Set(ctx, recordKeyPrefix+rec.Username, raw, 0).Err(); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "redis set", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveStoreOp("redis", "delete", float64(time.Since(start).Microseconds())/1000.0)
	}()

	n, err := s.client.Del(ctx, recordKeyPrefix+key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, dErrors.Wrap(dErrors.CodeUnavailable, "redis del", err)
	}
	return n > 0, nil
}
