package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := NewRetryConfig(3, time.Millisecond, NewDiscardLogger())
	calls := 0

	err := r.Do("flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("down")
	r := NewRetryConfig(2, time.Millisecond, NewDiscardLogger())

	err := r.Do("ping", func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	r := &RetryConfig{}
	calls := 0
	_ = r.Do("once", func() error { calls++; return errors.New("x") })
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
