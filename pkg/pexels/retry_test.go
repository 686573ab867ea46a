package pexels

import (
	"context"
	"errors"
	"testing"
	"time"
)

func classOfAPIError(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ErrorClassNetwork
}

func TestRetryWithBackoff_SuccessFirstAttempt(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), func() error {
		attempts++
		return nil
	}, classOfAPIError)

	if err != nil {
		t.Fatalf("retryWithBackoff() failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryWithBackoff_RetriesServerError(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &APIError{StatusCode: 500, Class: ErrorClassServer, Message: "boom"}
		}
		return nil
	}, classOfAPIError)

	if err != nil {
		t.Fatalf("retryWithBackoff() failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryWithBackoff_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	clientErr := &APIError{StatusCode: 404, Class: ErrorClassClient, Message: "not found"}

	err := retryWithBackoff(context.Background(), func() error {
		attempts++
		return clientErr
	}, classOfAPIError)

	if !errors.Is(err, clientErr) {
		t.Errorf("error = %v, want the original client error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry for 4xx)", attempts)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), func() error {
		attempts++
		return &APIError{StatusCode: 500, Class: ErrorClassServer, Message: "boom"}
	}, classOfAPIError)

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("error = %v, want ErrRetryExhausted", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (max attempts)", attempts)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- retryWithBackoff(ctx, func() error {
			attempts++
			return &APIError{StatusCode: 500, Class: ErrorClassServer, Message: "boom"}
		}, classOfAPIError)
	}()

	// Cancel while the first backoff is pending.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrContextCancelled) {
			t.Errorf("error = %v, want ErrContextCancelled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retryWithBackoff() did not return after cancellation")
	}
}

func TestRetryConfigFor(t *testing.T) {
	tests := []struct {
		class       ErrorClass
		wantInitial time.Duration
	}{
		{ErrorClassServer, 1 * time.Second},
		{ErrorClassRateLimit, 5 * time.Second},
		{ErrorClassNetwork, 2 * time.Second},
		{"", 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			cfg := retryConfigFor(tt.class)
			if cfg.InitialBackoff != tt.wantInitial {
				t.Errorf("InitialBackoff = %v, want %v", cfg.InitialBackoff, tt.wantInitial)
			}
			if cfg.MaxAttempts != 3 {
				t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
			}
		})
	}
}
