// AngelaMos | 2026
// collection.go

// Package store provides the in-memory keyed record collections and the
// undo journal that back the memory repository implementations.
package store

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carterperez-dev/stockhub/internal/core"
)

// Meta tells a Collection how to read and assign the identity fields of T.
type Meta[T any] struct {
	ID    func(rec T) int64
	Stamp func(rec *T, id int64, createdAt time.Time)
	// Clone deep-copies slice or map fields. Optional.
	Clone func(rec T) T
}

type Option func(*settings)

type settings struct {
	clock func() time.Time
}

func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

// Collection is a concurrency-safe keyed set of records with monotonically
// increasing int64 identifiers. Records go in and come out by value.
type Collection[T any] struct {
	mu      sync.RWMutex
	records map[int64]T
	seq     atomic.Int64
	meta    Meta[T]
	clock   func() time.Time
}

func NewCollection[T any](meta Meta[T], opts ...Option) *Collection[T] {
	s := settings{clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&s)
	}

	if meta.Clone == nil {
		meta.Clone = func(rec T) T { return rec }
	}

	return &Collection[T]{
		records: make(map[int64]T),
		meta:    meta,
		clock:   s.clock,
	}
}

func (c *Collection[T]) Now() time.Time {
	return c.clock()
}

func (c *Collection[T]) Create(rec T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.insertLocked(rec)
}

// CreateUnique inserts rec unless an existing record conflicts with it. The
// check and the insert happen under one lock.
func (c *Collection[T]) CreateUnique(
	rec T,
	conflicts func(existing T) bool,
) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.records {
		if conflicts(existing) {
			var zero T
			return zero, fmt.Errorf("create record: %w", core.ErrDuplicateKey)
		}
	}

	return c.insertLocked(rec), nil
}

func (c *Collection[T]) insertLocked(rec T) T {
	id := c.seq.Add(1)
	c.meta.Stamp(&rec, id, c.clock())
	c.records[id] = c.meta.Clone(rec)
	return c.meta.Clone(rec)
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.records[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.meta.Clone(rec), true
}

// Filter returns every record matching pred in insertion order. A nil pred
// matches everything.
func (c *Collection[T]) Filter(pred func(rec T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int64, 0, len(c.records))
	for id, rec := range c.records {
		if pred == nil || pred(rec) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.meta.Clone(c.records[id]))
	}
	return out
}

// Modify applies fn to a copy of the record and stores the result. If fn
// returns an error nothing is written. Absent ids yield core.ErrNotFound.
// The previous value is returned alongside the new one.
func (c *Collection[T]) Modify(
	id int64,
	fn func(rec *T) error,
) (updated T, previous T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.records[id]
	if !ok {
		return updated, previous, fmt.Errorf("modify record %d: %w", id, core.ErrNotFound)
	}

	previous = c.meta.Clone(current)
	next := c.meta.Clone(current)
	if err := fn(&next); err != nil {
		return updated, previous, err
	}

	c.records[id] = c.meta.Clone(next)
	return next, previous, nil
}

func (c *Collection[T]) Update(id int64, mutate func(rec *T)) (T, bool) {
	updated, _, err := c.Modify(id, func(rec *T) error {
		mutate(rec)
		return nil
	})
	return updated, err == nil
}

func (c *Collection[T]) Delete(id int64) bool {
	_, ok := c.Take(id)
	return ok
}

// Take removes and returns the record.
func (c *Collection[T]) Take(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[id]
	if !ok {
		var zero T
		return zero, false
	}
	delete(c.records, id)
	return c.meta.Clone(rec), true
}

// DeleteWhere removes every record matching pred and returns them in
// insertion order.
func (c *Collection[T]) DeleteWhere(pred func(rec T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []T
	for id, rec := range c.records {
		if pred(rec) {
			removed = append(removed, rec)
			delete(c.records, id)
		}
	}
	sort.Slice(removed, func(i, j int) bool {
		return c.meta.ID(removed[i]) < c.meta.ID(removed[j])
	})
	return removed
}

// Restore puts rec back under its own identifier. The sequence is not
// advanced, so restored ids are never reissued.
func (c *Collection[T]) Restore(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[c.meta.ID(rec)] = c.meta.Clone(rec)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.records)
}
