package cache

import (
	"time"
)

// Entry is a single cached upstream payload. Entries are never mutated
// after insertion; a new put for the same key replaces the entry.
type Entry struct {
	// Payload is the opaque upstream response body.
	Payload []byte `json:"payload"`

	// StoredAt is when the payload was inserted.
	StoredAt time.Time `json:"stored_at"`
}

// Expired reports whether the entry is older than ttl at time now.
func (e Entry) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.StoredAt) >= ttl
}

// Age returns how long ago the entry was stored.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}
