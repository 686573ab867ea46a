package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "freevid_upstream_quota_remaining",
		Help: "Requests remaining in the current upstream quota window",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freevid_upstream_quota_blocks_total",
		Help: "Total number of requests blocked due to critical quota",
	})

	quotaThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freevid_upstream_quota_throttles_total",
		Help: "Total number of requests throttled due to low quota",
	})
)

// throttleDelay is the pause applied per request in the warning band.
const throttleDelay = 1 * time.Second

// Tracker monitors the upstream request quota and gates requests.
type Tracker struct {
	mu     sync.RWMutex
	state  State
	logger zerolog.Logger
}

// NewTracker creates a tracker with an optimistic initial state, so
// requests flow until real quota headers arrive.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		state: State{
			Limit:      20000,
			Remaining:  20000,
			ResetAt:    time.Now().Add(1 * time.Hour),
			LastUpdate: time.Now(),
			IsHealthy:  true,
		},
		logger: logger,
	}
}

// GetState returns a copy of the current quota state.
func (t *Tracker) GetState() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// UpdateFromHeaders parses quota headers from an upstream response.
// Responses without quota headers are ignored.
func (t *Tracker) UpdateFromHeaders(headers http.Header) error {
	remainStr := headers.Get("X-Ratelimit-Remaining")
	if remainStr == "" {
		return nil
	}

	remaining, err := strconv.Atoi(remainStr)
	if err != nil {
		return err
	}

	state := State{
		Remaining:  remaining,
		LastUpdate: time.Now(),
	}

	if limitStr := headers.Get("X-Ratelimit-Limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			state.Limit = limit
		}
	}
	if resetStr := headers.Get("X-Ratelimit-Reset"); resetStr != "" {
		if resetUnix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			state.ResetAt = time.Unix(resetUnix, 0)
		}
	}
	state.UpdateHealth()

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	quotaRemaining.Set(float64(remaining))

	if state.NeedsCriticalBlock() {
		t.logger.Error().
			Int("remaining", remaining).
			Time("reset_at", state.ResetAt).
			Msg("Upstream quota CRITICAL - requests will be blocked")
	} else if state.NeedsThrottling() {
		t.logger.Warn().
			Int("remaining", remaining).
			Msg("Upstream quota low - requests will be throttled")
	} else {
		t.logger.Debug().
			Int("remaining", remaining).
			Bool("is_healthy", state.IsHealthy).
			Msg("Upstream quota updated")
	}

	return nil
}

// Allow checks whether a request may be sent under the current quota.
// Returns false when the quota is critical. In the warning band the
// call sleeps briefly to slow the request rate.
func (t *Tracker) Allow() bool {
	state := t.GetState()

	if state.NeedsCriticalBlock() {
		t.logger.Error().
			Int("remaining", state.Remaining).
			Dur("wait", state.TimeUntilReset()).
			Msg("Upstream quota critical - blocking request")

		quotaBlocksTotal.Inc()
		return false
	}

	if state.NeedsThrottling() {
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Msg("Upstream quota low - throttling request")

		quotaThrottlesTotal.Inc()
		time.Sleep(throttleDelay)
	}

	return true
}
