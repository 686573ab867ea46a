package ratelimit

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func quotaHeaders(limit, remaining int, resetIn time.Duration) http.Header {
	h := http.Header{}
	h.Set("X-Ratelimit-Limit", strconv.Itoa(limit))
	h.Set("X-Ratelimit-Remaining", strconv.Itoa(remaining))
	h.Set("X-Ratelimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))
	return h
}

func TestTracker_InitialStateAllows(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	if !tracker.Allow() {
		t.Error("Allow() on fresh tracker = false, want true")
	}
}

func TestTracker_UpdateFromHeaders(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	if err := tracker.UpdateFromHeaders(quotaHeaders(20000, 15000, time.Hour)); err != nil {
		t.Fatalf("UpdateFromHeaders() failed: %v", err)
	}

	state := tracker.GetState()
	if state.Limit != 20000 {
		t.Errorf("Limit = %d, want 20000", state.Limit)
	}
	if state.Remaining != 15000 {
		t.Errorf("Remaining = %d, want 15000", state.Remaining)
	}
	if !state.IsHealthy {
		t.Error("IsHealthy = false, want true")
	}
}

func TestTracker_UpdateFromHeaders_MissingHeadersIgnored(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())
	before := tracker.GetState()

	if err := tracker.UpdateFromHeaders(http.Header{}); err != nil {
		t.Fatalf("UpdateFromHeaders() failed: %v", err)
	}

	after := tracker.GetState()
	if after.Remaining != before.Remaining {
		t.Errorf("Remaining changed from %d to %d on empty headers", before.Remaining, after.Remaining)
	}
}

func TestTracker_UpdateFromHeaders_BadRemaining(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	h := http.Header{}
	h.Set("X-Ratelimit-Remaining", "not-a-number")

	if err := tracker.UpdateFromHeaders(h); err == nil {
		t.Error("UpdateFromHeaders() with bad header = nil error, want error")
	}
}

func TestTracker_CriticalBlocks(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	if err := tracker.UpdateFromHeaders(quotaHeaders(20000, ThresholdCritical-1, time.Hour)); err != nil {
		t.Fatalf("UpdateFromHeaders() failed: %v", err)
	}

	if tracker.Allow() {
		t.Error("Allow() in critical state = true, want false")
	}
}

func TestTracker_WarningThrottles(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	if err := tracker.UpdateFromHeaders(quotaHeaders(20000, ThresholdWarning-1, time.Hour)); err != nil {
		t.Fatalf("UpdateFromHeaders() failed: %v", err)
	}

	start := time.Now()
	allowed := tracker.Allow()
	elapsed := time.Since(start)

	if !allowed {
		t.Error("Allow() in warning state = false, want true")
	}
	if elapsed < throttleDelay {
		t.Errorf("Allow() in warning state returned after %v, want at least %v", elapsed, throttleDelay)
	}
}
