package session

import (
	"context"
	"errors"
	"sync"
)

// ErrCellSet is returned when a Cell is assigned a second time.
var ErrCellSet = errors.New("cell already set")

// Cell holds a value that is written once and read many times, possibly
// from goroutines that start before the write.
type Cell[T any] struct {
	once  sync.Once
	ready chan struct{}
	mk    sync.Once
	value T
}

func (c *Cell[T]) readyCh() chan struct{} {
	c.mk.Do(func() { c.ready = make(chan struct{}) })
	return c.ready
}

// Set stores v. Only the first call succeeds.
func (c *Cell[T]) Set(v T) error {
	ready := c.readyCh()
	err := ErrCellSet
	c.once.Do(func() {
		c.value = v
		close(ready)
		err = nil
	})
	return err
}

// Get waits until the value is set or ctx is done.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-c.readyCh():
		return c.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Load returns the value without waiting. ok is false until Set.
func (c *Cell[T]) Load() (v T, ok bool) {
	select {
	case <-c.readyCh():
		return c.value, true
	default:
		var zero T
		return zero, false
	}
}
