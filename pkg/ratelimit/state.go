// Package ratelimit tracks the upstream video API request quota and
// gates requests before they are sent. The quota is parsed from the
// X-Ratelimit-Limit, X-Ratelimit-Remaining and X-Ratelimit-Reset
// response headers.
package ratelimit

import (
	"time"
)

// Thresholds for quota decisions, in requests remaining.
const (
	// ThresholdCritical blocks all requests when the remaining quota
	// falls below this value, keeping a reserve for health probes.
	ThresholdCritical = 10

	// ThresholdWarning applies throttling when the remaining quota
	// falls below this value.
	ThresholdWarning = 100

	// ThresholdHealthy indicates normal operation.
	ThresholdHealthy = 1000
)

// State is the most recently observed upstream quota.
// It is process-local: each worker tracks its own view, which matches
// the per-process cache design.
type State struct {
	// Limit is the total request quota for the current window.
	// From the X-Ratelimit-Limit header.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the window.
	// From the X-Ratelimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is when the quota window resets.
	// From the X-Ratelimit-Reset header (UNIX timestamp).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state is older than maxAge.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
func (s *State) NeedsCriticalBlock() bool {
	return s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be throttled.
func (s *State) NeedsThrottling() bool {
	return s.Remaining < ThresholdWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the quota window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field from Remaining.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= ThresholdHealthy
}
