package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/reliability/circuitbreaker"
)

func newTestLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return NewLocker(client, nil), mr
}

func TestLocker_SecondAcquireConflicts(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "billgen:b1:3:2025", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "billgen:b1:3:2025", time.Minute)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	release()
	release2, err := l.Acquire(ctx, "billgen:b1:3:2025", time.Minute)
	require.NoError(t, err)
	release2()
}

func TestLocker_ReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("k", "someone-else"))

	release()
	v, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestLocker_FailsFastWhenRedisIsDown(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()
	mr.Close()

	for i := 0; i < breakerFailures; i++ {
		_, err := l.Acquire(ctx, "billgen:b1:3:2025", time.Minute)
		require.Error(t, err)
		assert.False(t, errors.Is(err, circuitbreaker.ErrOpen))
	}
	_, err := l.Acquire(ctx, "billgen:b1:3:2025", time.Minute)
	assert.True(t, errors.Is(err, circuitbreaker.ErrOpen))
	assert.Equal(t, circuitbreaker.StateOpen, l.breaker.State())
}
