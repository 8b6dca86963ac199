package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

func fastConfig() *Config {
	return &Config{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, BackoffMultiplier: 2}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), fastConfig(), quiet(), "flaky", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection refused")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), quiet(), "down", func(context.Context) (string, error) {
		calls++
		return "", errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnDomainErrors(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), quiet(), "lookup", func(context.Context) (string, error) {
		calls++
		return "", domain.NotFound("bill not found")
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{MaxAttempts: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour, BackoffMultiplier: 1}
	_, err := Do(ctx, cfg, quiet(), "slow", func(context.Context) (int, error) {
		cancel()
		return 0, errors.New("timeout")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffCapped(t *testing.T) {
	cfg := &Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, BackoffMultiplier: 2}
	assert.Equal(t, time.Second, Backoff(0, cfg))
	assert.Equal(t, 2*time.Second, Backoff(1, cfg))
	assert.Equal(t, 3*time.Second, Backoff(2, cfg))
}
