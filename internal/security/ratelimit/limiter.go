package ratelimit

import (
	"sync"
	"time"
)

// idleAfter is how long a key may go unused before its history is dropped
const idleAfter = 30 * time.Minute

// Limiter is a sliding-window request limiter keyed by caller identity.
// Allow enforces the default budget; AllowStrict keeps separate, tighter
// budgets such as login attempts per address.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	maxReqs int
	period  time.Duration
	now     func() time.Time
	sweep   *time.Ticker
	done    chan struct{}
	once    sync.Once
}

// window holds the timestamps of recent requests for one key, oldest first
type window struct {
	hits     []time.Time
	lastSeen time.Time
}

// NewLimiter allows maxRequests per key in any period. Stop releases the
// background sweeper.
func NewLimiter(maxRequests int, period time.Duration) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		maxReqs: maxRequests,
		period:  period,
		now:     time.Now,
		sweep:   time.NewTicker(5 * time.Minute),
		done:    make(chan struct{}),
	}
	go l.sweepIdle()
	return l
}

// Allow records a request for key and reports whether it fits the default
// budget. An empty key is never limited.
func (l *Limiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	return l.take("default:"+key, l.maxReqs, l.period)
}

// AllowStrict is Allow with its own budget, tracked apart from the default one
func (l *Limiter) AllowStrict(key string, maxReqs int, period time.Duration) bool {
	return l.take("strict:"+key, maxReqs, period)
}

func (l *Limiter) take(key string, maxReqs int, period time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok {
		w = &window{}
		l.windows[key] = w
	}
	w.lastSeen = now

	cutoff := now.Add(-period)
	drop := 0
	for drop < len(w.hits) && !w.hits[drop].After(cutoff) {
		drop++
	}
	w.hits = w.hits[drop:]

	if len(w.hits) >= maxReqs {
		return false
	}
	w.hits = append(w.hits, now)
	return true
}

func (l *Limiter) sweepIdle() {
	for {
		select {
		case <-l.done:
			return
		case <-l.sweep.C:
			l.mu.Lock()
			stale := l.now().Add(-idleAfter)
			for key, w := range l.windows {
				if w.lastSeen.Before(stale) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop ends the sweeper; it is safe to call more than once
func (l *Limiter) Stop() {
	l.once.Do(func() {
		l.sweep.Stop()
		close(l.done)
	})
}
