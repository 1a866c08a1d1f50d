package coordinate

import (
	"context"
	"errors"
	"testing"
	"time"

	"aegis/internal/faults"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2}
}

func TestWithRetryTransient(t *testing.T) {
	calls := 0
	attempts, err := withRetry(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		if calls < 3 {
			return faults.Newf(faults.Transient, "op", "flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err = %v, want success on third attempt", err)
	}
	if attempts != 3 || calls != 3 {
		t.Errorf("attempts = %d, calls = %d, want 3", attempts, calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	attempts, err := withRetry(context.Background(), fastPolicy(), func(context.Context) error {
		return faults.Newf(faults.Transient, "op", "still down")
	})
	if !faults.IsTransient(err) {
		t.Errorf("err = %v, want last transient error", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want max attempts", attempts)
	}
}

func TestWithRetryNonTransientSurfacesImmediately(t *testing.T) {
	for _, kind := range []faults.Kind{faults.Validation, faults.Conflict, faults.NotFound} {
		calls := 0
		attempts, err := withRetry(context.Background(), fastPolicy(), func(context.Context) error {
			calls++
			return faults.Newf(kind, "op", "no retry")
		})
		if faults.KindOf(err) != kind {
			t.Errorf("kind %s: err = %v", kind, err)
		}
		if attempts != 1 || calls != 1 {
			t.Errorf("kind %s: attempts = %d, calls = %d, want 1", kind, attempts, calls)
		}
	}

	// Unclassified errors are not retried either.
	calls := 0
	_, err := withRetry(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		return errors.New("plain failure")
	})
	if err == nil || calls != 1 {
		t.Errorf("plain error retried: calls = %d, err = %v", calls, err)
	}
}

func TestWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour, Factor: 2}

	done := make(chan error, 1)
	go func() {
		_, err := withRetry(ctx, p, func(context.Context) error {
			return faults.Newf(faults.Transient, "op", "down")
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("withRetry did not observe cancellation")
	}
}
