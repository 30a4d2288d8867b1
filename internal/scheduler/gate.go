package scheduler

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// gate is a counting semaphore that also knows how many permits are held.
type gate struct {
	sem  *semaphore.Weighted
	size int64
	held atomic.Int64
}

func newGate(size int) *gate {
	return &gate{
		sem:  semaphore.NewWeighted(int64(size)),
		size: int64(size),
	}
}

// acquire takes one permit, waiting until one is free or ctx is done.
// On error no permit is held.
func (g *gate) acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return cancelled(ctx)
	}

	g.held.Add(1)

	return nil
}

// release gives back one permit taken by acquire.
func (g *gate) release() {
	g.held.Add(-1)
	g.sem.Release(1)
}

// available returns the number of free permits.
func (g *gate) available() int {
	return int(g.size - g.held.Load())
}
