package service

import (
	"time"

	"github.com/Spectronyx/rent-manager-app-sub000/pkg/cache"
)

// StatsCache holds computed financial views per admin. Every write that
// changes rooms, payments or expenses drops the owning admin's entries.
// A nil *StatsCache caches nothing.
type StatsCache struct {
	c *cache.Cache[any]
}

// NewStatsCache creates a cache whose entries live for ttl
func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{c: cache.New[any](ttl)}
}

func statsPrefix(adminID string) string {
	return "stats:" + adminID + ":"
}

// Invalidate drops every cached view of adminID
func (s *StatsCache) Invalidate(adminID string) {
	if s == nil {
		return
	}
	s.c.InvalidatePrefix(statsPrefix(adminID))
}

func (s *StatsCache) get(adminID, key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return s.c.Get(statsPrefix(adminID) + key)
}

func (s *StatsCache) set(adminID, key string, v any) {
	if s == nil {
		return
	}
	s.c.Set(statsPrefix(adminID)+key, v)
}

// cachedStats returns the cached value for key or computes and stores it
func cachedStats[T any](s *StatsCache, adminID, key string, compute func() (T, error)) (T, error) {
	if v, ok := s.get(adminID, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	s.set(adminID, key, v)
	return v, nil
}
