// Package catalog implements the cached fetch-on-miss flow between the
// route layer and the upstream video API. A lookup consults the
// response cache first; only on miss (or expiry) is the upstream fetch
// executed, and only a successful fetch populates the cache. A failed
// fetch propagates to the caller and caches nothing, so transient
// upstream failures never poison later lookups.
package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// FetchFunc performs the upstream request for a single cache key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Stats are the service counters reported by the stats endpoint.
type Stats struct {
	Hits     uint64 `json:"cache_hits"`
	Misses   uint64 `json:"cache_misses"`
	Upstream uint64 `json:"upstream_fetches"`
	Errors   uint64 `json:"upstream_errors"`
}

// Service wires a cache.Store to upstream fetches.
type Service struct {
	store  cache.Store
	group  singleflight.Group
	logger zerolog.Logger

	hits     atomic.Uint64
	misses   atomic.Uint64
	upstream atomic.Uint64
	errors   atomic.Uint64
}

// New creates a catalog service on top of the given store.
func New(store cache.Store) *Service {
	return &Service{
		store:  store,
		logger: log.With().Str("component", "catalog").Logger(),
	}
}

// Get returns the payload for key, fetching from upstream on miss.
// The returned bool reports whether the payload came from the cache.
// Concurrent callers for the same key share one upstream fetch.
func (s *Service) Get(ctx context.Context, key cache.Key, fetch FetchFunc) ([]byte, bool, error) {
	if payload, ok := s.store.Get(ctx, key); ok {
		s.hits.Add(1)
		s.logger.Debug().Str("key", key.String()).Msg("Cache hit")
		return payload, true, nil
	}

	s.misses.Add(1)
	start := time.Now()

	result, err, shared := s.group.Do(key.String(), func() (interface{}, error) {
		s.upstream.Add(1)

		payload, err := fetch(ctx)
		if err != nil {
			// No negative caching: the miss stays a miss.
			s.errors.Add(1)
			return nil, err
		}

		s.store.Put(ctx, key, payload)
		return payload, nil
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", key.String()).
			Dur("duration", time.Since(start)).
			Msg("Upstream fetch failed")
		return nil, false, err
	}

	s.logger.Debug().
		Str("key", key.String()).
		Bool("shared", shared).
		Dur("duration", time.Since(start)).
		Msg("Cache miss, fetched from upstream")

	return result.([]byte), false, nil
}

// Clear empties the cache and returns the number of entries removed.
func (s *Service) Clear(ctx context.Context) int {
	removed := s.store.Clear(ctx)
	s.logger.Info().Int("removed", removed).Msg("Cache cleared")
	return removed
}

// Size returns the current cache entry count.
func (s *Service) Size(ctx context.Context) int {
	return s.store.Size(ctx)
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() Stats {
	return Stats{
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
		Upstream: s.upstream.Load(),
		Errors:   s.errors.Load(),
	}
}
