// Package cache implements the response cache for upstream video API
// payloads. A cache maps a request fingerprint (operation + normalized
// query parameters) to the most recently fetched payload with a fixed
// time-to-live. Entries are immutable after insertion; a put for an
// existing key replaces the entry. Expiry is checked lazily at read
// time, so an entry past its TTL is reported as absent even when it is
// still physically present.
//
// Two Store backends are provided: Memory (process-local, reference
// behavior) and Redis (shared across processes).
package cache
