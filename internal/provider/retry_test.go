// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{Timeout: time.Second, Backoff: time.Millisecond}
}

func TestCallSuccessFirstAttempt(t *testing.T) {
	calls := 0
	out, err := Call(context.Background(), fastRetryConfig(), nil, "test",
		func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, calls)
}

func TestCallRetriesTransientFailure(t *testing.T) {
	calls := 0
	out, err := Call(context.Background(), fastRetryConfig(), nil, "test",
		func(ctx context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("connection reset")
			}
			return "recovered", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, calls)
}

func TestCallDoesNotRetryInvalidRequest(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), fastRetryConfig(), nil, "test",
		func(ctx context.Context) (string, error) {
			calls++
			return "", perr.New(perr.CodeProviderRequestInvalid, "empty input")
		})
	require.Error(t, err)
	assert.True(t, perr.IsInvalidInput(err))
	assert.Equal(t, 1, calls)
}

func TestCallStopsAfterSecondFailure(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), fastRetryConfig(), nil, "test",
		func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("still down")
		})
	require.Error(t, err)
	assert.True(t, perr.IsUpstreamFailure(err))
	assert.Equal(t, 2, calls)
}

func TestCallClassifiesTimeout(t *testing.T) {
	cfg := RetryConfig{Timeout: 10 * time.Millisecond, Backoff: time.Millisecond}
	calls := 0
	_, err := Call(context.Background(), cfg, nil, "test",
		func(ctx context.Context) (string, error) {
			calls++
			<-ctx.Done()
			return "", ctx.Err()
		})
	require.Error(t, err)
	assert.True(t, perr.IsTimeout(err))
	assert.Equal(t, 2, calls)
}

func TestCallRecordsHealth(t *testing.T) {
	h, err := NewHealthTracker(time.Minute)
	require.NoError(t, err)

	_, callErr := Call(context.Background(), fastRetryConfig(), h, "test",
		func(ctx context.Context) (string, error) {
			return "", errors.New("down")
		})
	require.Error(t, callErr)
	assert.Equal(t, int64(2), h.Metrics().FailureCount)
	assert.False(t, h.IsHealthy())

	out, callErr := Call(context.Background(), fastRetryConfig(), h, "test",
		func(ctx context.Context) (string, error) {
			return "up", nil
		})
	require.NoError(t, callErr)
	assert.Equal(t, "up", out)
	assert.True(t, h.IsHealthy())
}
