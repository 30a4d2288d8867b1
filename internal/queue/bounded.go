package queue

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCapacityMisconfigured is returned when a queue is built with a non-positive capacity.
	ErrCapacityMisconfigured = errors.New("capacity must be positive")
	// ErrCancelled is returned when a blocking call is interrupted by its context.
	ErrCancelled = errors.New("cancelled")
)

// Bounded is a fixed-capacity FIFO queue safe for concurrent use.
// The zero value is not usable; construct it with NewBounded.
type Bounded[T any] struct {
	// items is the backing buffer. Its capacity is the queue capacity and
	// channel send/receive order gives FIFO hand-off.
	items chan T
}

// NewBounded creates a queue holding at most capacity values.
func NewBounded[T any](capacity int) (*Bounded[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrCapacityMisconfigured, capacity)
	}

	return &Bounded[T]{
		items: make(chan T, capacity),
	}, nil
}

// Insert appends v at the tail, waiting for a free slot if the queue is full.
// If ctx is done before the value is accepted, v is not inserted and the
// returned error matches both ErrCancelled and the context's cause.
func (q *Bounded[T]) Insert(ctx context.Context, v T) error {
	// A done context wins over a free slot, otherwise select would pick at random.
	if ctx.Err() != nil {
		return cancelled(ctx)
	}

	select {
	case q.items <- v:
		return nil
	case <-ctx.Done():
		return cancelled(ctx)
	}
}

// Remove takes the head of the queue, waiting for a value if it is empty.
// Cancellation follows the same contract as Insert.
func (q *Bounded[T]) Remove(ctx context.Context) (T, error) {
	var zero T

	if ctx.Err() != nil {
		return zero, cancelled(ctx)
	}

	select {
	case v := <-q.items:
		return v, nil
	case <-ctx.Done():
		return zero, cancelled(ctx)
	}
}

// Len returns the number of queued values.
func (q *Bounded[T]) Len() int {
	return len(q.items)
}

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int {
	return cap(q.items)
}

// cancelled wraps the context cause so callers can match either ErrCancelled
// or context.Canceled / context.DeadlineExceeded.
func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
}
