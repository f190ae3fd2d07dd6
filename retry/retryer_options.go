package retry

import (
	"context"
	"time"
)

// Algorithm represents a retry algorithm used to determine backoff before retrying function execution.
type Algorithm int

const (
	// AlgorithmFibonacci backs off using the fibonacci sequence e.g. 50ms, 50ms, 100ms ... 128h9m33s
	AlgorithmFibonacci Algorithm = iota

	// AlgorithmExponential backs off exponentially e.g. 100ms, 200ms, 400ms ... 477218h35m18s
	AlgorithmExponential

	// AlgorithmLinear backs off linearly e.g. 50ms, 100ms, 150ms ... 1.75s
	AlgorithmLinear

	// AlgorithmFixed always backs off for 'MinDelay' e.g. 1s, 1s, 1s ... 1s
	AlgorithmFixed
)

// LogFunc is a function which is run before each retry attempt after failing to run the given 'RetryableFunc'.
type LogFunc[T any] func(ctx *Context, payload T, err error)

// ShouldRetryFunc is a function which may be supplied to the retry options which allows more control over which types
// of errors are retried.
//
// NOTE: If not supplied, retries will take place if the given 'RetryableFunc' returns an error.
type ShouldRetryFunc[T any] func(ctx *Context, payload T, err error) bool

// CleanupFunc is a function which is run with the payload for all, but the last retry attempt.
//
// NOTE: The final attempt is not cleaned up because the payload may want to be used/read to enhance returned errors.
type CleanupFunc[T any] func(payload T)

// SleepFunc blocks for the given duration, returning early with an error if the context is cancelled.
type SleepFunc func(ctx context.Context, duration time.Duration) error

// RetryerOptions encapsulates the options available when creating a retryer.
type RetryerOptions[T any] struct {
	// Algorithm is the algorithm to use when calculating backoff.
	Algorithm Algorithm

	// MaxRetries is the maximum number of times to run the function i.e. the total number of attempts.
	MaxRetries int

	// MinDelay is the minimum delay to use for backoff.
	MinDelay time.Duration

	// MaxDelay is the maximum delay to use for backoff.
	MaxDelay time.Duration

	// ShouldRetry is a custom retry function, when not supplied, this will be defaulted to 'err != nil'.
	ShouldRetry ShouldRetryFunc[T]

	// ShouldBackoff decides whether to sleep before the next attempt, when not supplied every retry backs off.
	ShouldBackoff ShouldRetryFunc[T]

	// Log is a function which is run before each retry, when not supplied logging will be skipped.
	Log LogFunc[T]

	// Cleanup is a cleanup function run for all but the last payloads prior to performing a retry.
	Cleanup CleanupFunc[T]

	// Sleep is used to wait between attempts, when not supplied a timer which honors context cancellation is used.
	Sleep SleepFunc
}

func (r *RetryerOptions[T]) defaults() {
	if r.MaxRetries == 0 {
		r.MaxRetries = 3
	}

	if r.MinDelay == 0 {
		r.MinDelay = 50 * time.Millisecond
	}

	if r.MaxDelay == 0 {
		r.MaxDelay = 2*time.Second + 500*time.Millisecond
	}

	// A fixed delay longer than the default max would otherwise be truncated
	if r.Algorithm == AlgorithmFixed {
		r.MaxDelay = max(r.MaxDelay, r.MinDelay)
	}

	if r.Sleep == nil {
		r.Sleep = Sleep
	}
}

// Sleep waits for the given duration or until the context is cancelled, whichever happens first.
func Sleep(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
