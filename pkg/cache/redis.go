package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyPattern matches all cache keys owned by this service in Redis.
const keyPattern = "freevid:*"

// Redis is a Store shared across processes via a Redis backend.
// Redis key expiry enforces the TTL physically; the lazy StoredAt
// check keeps the contract exact when clocks drift.
//
// Backend failures never surface to callers: a failed read degrades to
// a miss, a failed write drops the entry, and both are counted.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis creates a Redis-backed cache with the given TTL.
func NewRedis(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		panic("cache ttl must be positive")
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the configured time-to-live.
func (r *Redis) TTL() time.Duration {
	return r.ttl
}

// Get returns the payload for key if present and fresh.
func (r *Redis) Get(ctx context.Context, key Key) ([]byte, bool) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			cacheErrors.WithLabelValues("get").Inc()
			r.logger.Warn().Err(err).Str("key", key.String()).Msg("Redis get failed, treating as miss")
		}
		cacheMisses.Inc()
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		r.logger.Warn().Err(err).Str("key", key.String()).Msg("Invalid cache entry, treating as miss")
		cacheMisses.Inc()
		return nil, false
	}

	if entry.Expired(r.ttl, time.Now()) {
		cacheMisses.Inc()
		return nil, false
	}

	cacheHits.WithLabelValues("redis").Inc()
	return entry.Payload, true
}

// Put inserts or replaces the entry for key.
func (r *Redis) Put(ctx context.Context, key Key, payload []byte) {
	entry := Entry{
		Payload:  payload,
		StoredAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		cacheErrors.WithLabelValues("put").Inc()
		r.logger.Warn().Err(err).Str("key", key.String()).Msg("Marshal cache entry failed")
		return
	}

	if err := r.client.Set(ctx, key.String(), data, r.ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("put").Inc()
		r.logger.Warn().Err(err).Str("key", key.String()).Msg("Redis set failed, entry dropped")
	}
}

// Clear removes all entries owned by this service and returns the
// number removed.
func (r *Redis) Clear(ctx context.Context) int {
	removed := 0

	iter := r.client.Scan(ctx, 0, keyPattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			cacheErrors.WithLabelValues("clear").Inc()
			r.logger.Warn().Err(err).Str("key", iter.Val()).Msg("Redis del failed")
			continue
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		cacheErrors.WithLabelValues("clear").Inc()
		r.logger.Warn().Err(err).Msg("Redis scan failed during clear")
	}

	return removed
}

// Size returns the number of entries owned by this service.
func (r *Redis) Size(ctx context.Context) int {
	count := 0

	iter := r.client.Scan(ctx, 0, keyPattern, 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		cacheErrors.WithLabelValues("size").Inc()
		r.logger.Warn().Err(err).Msg("Redis scan failed during size")
	}

	return count
}
