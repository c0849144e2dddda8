// AngelaMos | 2026
// journal.go

package store

import (
	"context"
	"fmt"
	"sync"
)

// Journal is an undo log. Each mutation made inside a transaction records
// the action that reverses it.
type Journal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *Journal) Record(undo func()) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, undo)
}

// Rollback runs the recorded undo actions newest first and empties the log.
func (j *Journal) Rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.undo)
}

// Transactor serializes memory transactions and rolls back every journaled
// mutation when the transaction function fails or panics.
type Transactor struct {
	mu sync.Mutex
}

func (t *Transactor) Run(ctx context.Context, fn func(j *Journal) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	j := &Journal{}

	defer func() {
		if p := recover(); p != nil {
			j.Rollback()
			panic(p)
		}
	}()

	if err := fn(j); err != nil {
		j.Rollback()
		return err
	}

	return nil
}
