package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerLifecycle(t *testing.T) {
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, 1, time.Minute)
	cb.now = func() time.Time { return now }

	var transitions []string
	cb.OnStateChange(func(from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	assert.NoError(t, cb.Allow())
	cb.Failure()
	assert.Equal(t, StateClosed, cb.State())
	cb.Failure()
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrOpen)

	now = now.Add(2 * time.Minute)
	assert.NoError(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
	cb.Failure()
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Minute)
	assert.NoError(t, cb.Allow())
	cb.Success()
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{
		"closed->open", "open->half-open", "half-open->open", "open->half-open", "half-open->closed",
	}, transitions)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, 1, time.Minute)
	cb.Failure()
	cb.Success()
	cb.Failure()
	assert.Equal(t, StateClosed, cb.State())
}
