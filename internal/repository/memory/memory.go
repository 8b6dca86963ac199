// Package memory holds map-backed repositories used by STORAGE_DRIVER=memory
// and by service and handler tests. Returned entities are copies; callers
// persist changes through Update.
package memory

import (
	"slices"
	"sync"
	"time"
)

// entry pairs a stored value with its insertion order for stable listings
type entry[T any] struct {
	seq int
	v   T
}

// table is a mutex-guarded map keyed by id
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]entry[T]
	seq  int
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]entry[T])}
}

// put stores v under id, keeping the original insertion order on overwrite
func (t *table[T]) put(id string, v T) {
	e, ok := t.rows[id]
	if !ok {
		t.seq++
		e.seq = t.seq
	}
	e.v = v
	t.rows[id] = e
}

// filter returns matching values in insertion order
func (t *table[T]) filter(match func(T) bool) []T {
	entries := make([]entry[T], 0, len(t.rows))
	for _, e := range t.rows {
		if match(e.v) {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b entry[T]) int { return a.seq - b.seq })
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.v
	}
	return out
}

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
