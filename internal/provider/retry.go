// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// RetryConfig bounds a provider call: a per-attempt timeout and a pause
// before the single retry attempt.
type RetryConfig struct {
	Timeout time.Duration
	Backoff time.Duration
}

// DefaultRetryConfig suits interactive request paths.
var DefaultRetryConfig = RetryConfig{
	Timeout: 30 * time.Second,
	Backoff: 500 * time.Millisecond,
}

// Call runs fn with a per-attempt timeout and at most one retry. Only
// transient failures (timeouts and upstream errors) are retried; invalid
// requests fail immediately. The tracker, when non-nil, records the
// outcome of each attempt.
func Call[T any](ctx context.Context, cfg RetryConfig, tracker *HealthTracker, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempt := func() (T, error) {
		callCtx := ctx
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		out, err := fn(callCtx)
		if err != nil {
			return zero, classify(err)
		}
		return out, nil
	}

	out, err := attempt()
	if err == nil {
		if tracker != nil {
			tracker.RecordSuccess()
		}
		return out, nil
	}
	if tracker != nil {
		tracker.RecordFailure()
	}
	if !retryable(err) {
		return zero, err
	}

	slog.WarnContext(ctx, "provider call failed, retrying",
		"provider", name, "error", err)

	if cfg.Backoff > 0 {
		select {
		case <-time.After(cfg.Backoff):
		case <-ctx.Done():
			return zero, classify(ctx.Err())
		}
	}

	out, err = attempt()
	if err != nil {
		if tracker != nil {
			tracker.RecordFailure()
		}
		return zero, err
	}
	if tracker != nil {
		tracker.RecordSuccess()
	}
	return out, nil
}

// classify normalizes provider errors into coded errors. Errors already
// carrying a code pass through unchanged.
func classify(err error) error {
	if perr.CodeOf(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return perr.Wrap(err, perr.CodeProviderRequestTimeout, "provider call timed out")
	}
	return perr.Wrap(err, perr.CodeProviderUpstreamFailure, "provider call failed")
}

func retryable(err error) bool {
	return perr.IsTimeout(err) || perr.IsUpstreamFailure(err)
}
