package cache

import (
	"context"
)

// Store is the response cache contract consumed by the route layer.
//
// All operations are total: a backend that can fail internally (Redis)
// degrades a failed read to a miss and records the error in metrics
// rather than surfacing it. The cache never returns an entry older
// than its TTL, whether or not the entry has been physically removed.
type Store interface {
	// Get returns the payload for key, or ok=false on miss or expiry.
	Get(ctx context.Context, key Key) (payload []byte, ok bool)

	// Put inserts or replaces the entry for key with the current time
	// as its storage timestamp. Put always succeeds.
	Put(ctx context.Context, key Key, payload []byte)

	// Clear removes all entries and returns the number removed.
	Clear(ctx context.Context) int

	// Size returns the current entry count.
	Size(ctx context.Context) int
}
