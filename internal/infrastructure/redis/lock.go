package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/metrics"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/reliability/circuitbreaker"
)

// Consecutive Redis failures before lock attempts fail fast, and how long
// they keep failing fast before a probe
const (
	breakerFailures = 5
	breakerCooldown = 30 * time.Second
)

// Locker implements domain.Locker with SET NX and a token-checked release
type Locker struct {
	client  *Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewLocker creates a lock backed by Redis
func NewLocker(client *Client, logger *slog.Logger) *Locker {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := circuitbreaker.NewCircuitBreaker(breakerFailures, 1, breakerCooldown)
	breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warn("redis lock breaker changed state",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
		metrics.SetLockBreakerState(int(to))
	})
	return &Locker{client: client, breaker: breaker, logger: logger}
}

// Acquire takes key for ttl. The returned release only deletes the key while
// it still carries this holder's token, so an expired lock re-taken by
// another process is left alone.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := l.breaker.Allow(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl)
	if err != nil {
		l.breaker.Failure()
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	l.breaker.Success()
	if !ok {
		return nil, domain.Conflict("another generation run is in progress")
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.client.DeleteIfEquals(releaseCtx, key, token); err != nil {
			l.logger.Warn("failed to release lock",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}, nil
}
