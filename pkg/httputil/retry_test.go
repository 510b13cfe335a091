package httputil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(errTransient)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !isRetryable(err) {
		t.Error("isRetryable should return true for wrapped error")
	}

	// Error message and chain are preserved
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the original")
	}

	// Non-wrapped errors are not retryable
	if isRetryable(errTransient) {
		t.Error("isRetryable should return false for unwrapped error")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusTooManyRequests}
	for _, status := range retryable {
		if !IsRetryableStatus(status) {
			t.Errorf("IsRetryableStatus(%d) = false, want true", status)
		}
	}
	final := []int{http.StatusOK, http.StatusBadRequest, http.StatusNotFound}
	for _, status := range final {
		if IsRetryableStatus(status) {
			t.Errorf("IsRetryableStatus(%d) = true, want false", status)
		}
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return errTransient
	})
	if err != errTransient {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(errTransient)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}

	// All attempts exhausted returns the last error
	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(errTransient)
	})
	if !errors.Is(err, errTransient) {
		t.Errorf("Should return last error: %v", err)
	}
	if calls != 3 {
		t.Errorf("Should use all attempts: %d", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := Retry(ctx, 3, time.Millisecond, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
