package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process Store. The HTTP server handles requests
// concurrently, so access is guarded by a mutex; entries for all
// workers of one process share this instance.
//
// There is no capacity bound. Expired entries are treated as absent at
// read time; a background sweeper can be started to physically remove
// them, which affects memory use only, not the observable contract.
type Memory struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]Entry

	// now is replaceable in tests.
	now func() time.Time

	sweepOnce sync.Once
	done      chan struct{}
}

// NewMemory creates an empty in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		panic("cache ttl must be positive")
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// TTL returns the configured time-to-live.
func (m *Memory) TTL() time.Duration {
	return m.ttl
}

// Get returns the payload for key if present and fresh.
func (m *Memory) Get(_ context.Context, key Key) ([]byte, bool) {
	m.mu.RLock()
	entry, exists := m.entries[key.String()]
	m.mu.RUnlock()

	if !exists || entry.Expired(m.ttl, m.now()) {
		cacheMisses.Inc()
		return nil, false
	}

	cacheHits.WithLabelValues("memory").Inc()
	return entry.Payload, true
}

// Put inserts or replaces the entry for key.
func (m *Memory) Put(_ context.Context, key Key, payload []byte) {
	m.mu.Lock()
	m.entries[key.String()] = Entry{
		Payload:  payload,
		StoredAt: m.now(),
	}
	cacheEntries.WithLabelValues("memory").Set(float64(len(m.entries)))
	m.mu.Unlock()
}

// Clear removes all entries and returns the number of live entries
// removed. Entries already past their TTL are absent by contract and
// do not count.
func (m *Memory) Clear(_ context.Context) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, entry := range m.entries {
		if !entry.Expired(m.ttl, now) {
			removed++
		}
	}
	m.entries = make(map[string]Entry)
	cacheEntries.WithLabelValues("memory").Set(0)

	return removed
}

// Size returns the number of live entries.
func (m *Memory) Size(_ context.Context) int {
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entry := range m.entries {
		if !entry.Expired(m.ttl, now) {
			count++
		}
	}
	return count
}

// StartSweeper launches a background goroutine that periodically
// removes expired entries. Stop it with Close.
func (m *Memory) StartSweeper(interval time.Duration) {
	m.sweepOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					m.sweep()
				case <-m.done:
					return
				}
			}
		}()
	})
}

// Close stops the sweeper if one is running.
func (m *Memory) Close() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// sweep physically removes expired entries.
func (m *Memory) sweep() {
	now := m.now()

	m.mu.Lock()
	for keyStr, entry := range m.entries {
		if entry.Expired(m.ttl, now) {
			delete(m.entries, keyStr)
		}
	}
	cacheEntries.WithLabelValues("memory").Set(float64(len(m.entries)))
	m.mu.Unlock()
}
