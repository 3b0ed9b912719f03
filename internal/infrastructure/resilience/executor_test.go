package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func retryOnlyConfig(attempts int) Config {
	return Config{
		RetryMaxAttempts:    attempts,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func transientClassifier(transient error) ErrorClassifier {
	return func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, transient),
			RecordFailure: true,
		}
	}
}

func TestExecuteRetriesFileStillFlushing(t *testing.T) {
	exec := NewExecutor(retryOnlyConfig(3))

	errBusy := errors.New("file busy")
	attempts := 0
	err := exec.Execute(context.Background(), "extract_text", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errBusy
		}
		return nil
	}, transientClassifier(errBusy))
	if err != nil {
		t.Fatalf("expected success once the file settled, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteStopsOnNonRetryableFailure(t *testing.T) {
	exec := NewExecutor(retryOnlyConfig(3))

	errCorrupt := errors.New("corrupt document")
	attempts := 0
	err := exec.Execute(context.Background(), "extract_text", func(context.Context) error {
		attempts++
		return errCorrupt
	}, transientClassifier(errors.New("other")))
	if !errors.Is(err, errCorrupt) {
		t.Fatalf("expected the corrupt-document error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("non-retryable failure must not be retried, attempts = %d", attempts)
	}
}

func TestExecuteOpensBreakerPerOperation(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     time.Millisecond,
		RetryMaxBackoff:         time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errDown := errors.New("broker down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "publish_file_discovered", func(context.Context) error {
			return errDown
		}, classifier)
		if !errors.Is(err, errDown) {
			t.Fatalf("iteration %d: got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "publish_file_discovered", func(context.Context) error {
		t.Fatalf("open circuit must not invoke the operation")
		return nil
	}, classifier)
	if !IsCircuitOpen(err) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	// Breakers are per operation: extraction is unaffected by the
	// publisher's open circuit.
	called := false
	if err := exec.Execute(context.Background(), "extract_text", func(context.Context) error {
		called = true
		return nil
	}, classifier); err != nil {
		t.Fatalf("unrelated operation error = %v", err)
	}
	if !called {
		t.Fatalf("unrelated operation must still run")
	}
}

func TestExecuteRejectsNilCallback(t *testing.T) {
	exec := NewExecutor(DefaultConfig())
	if err := exec.Execute(context.Background(), "extract_text", nil, nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}

func TestNormalizeClampsMaxBackoffBelowInitial(t *testing.T) {
	cfg := Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 10 * time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2,
	}.normalize()
	if cfg.RetryMaxBackoff != cfg.RetryInitialBackoff {
		t.Fatalf("RetryMaxBackoff = %v, want clamped to %v", cfg.RetryMaxBackoff, cfg.RetryInitialBackoff)
	}
}

func TestNormalizeFillsZeroValuesFromDefaults(t *testing.T) {
	cfg := Config{}.normalize()
	def := DefaultConfig()
	if cfg.RetryMaxAttempts != def.RetryMaxAttempts ||
		cfg.RetryInitialBackoff != def.RetryInitialBackoff ||
		cfg.RetryMultiplier != def.RetryMultiplier ||
		cfg.BreakerMinRequests != def.BreakerMinRequests ||
		cfg.BreakerFailureRatio != def.BreakerFailureRatio ||
		cfg.BreakerOpenTimeout != def.BreakerOpenTimeout ||
		cfg.BreakerHalfOpenMaxCalls != def.BreakerHalfOpenMaxCalls {
		t.Fatalf("normalize() = %+v, want defaults %+v", cfg, def)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	exec := NewExecutor(retryOnlyConfig(5))

	ctx, cancel := context.WithCancel(context.Background())
	errBusy := errors.New("file busy")
	attempts := 0
	err := exec.Execute(ctx, "extract_text", func(context.Context) error {
		attempts++
		cancel()
		return errBusy
	}, transientClassifier(errBusy))
	if !errors.Is(err, errBusy) {
		t.Fatalf("expected the last attempt error after cancellation, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("cancelled context must stop the retry loop, attempts = %d", attempts)
	}
}
