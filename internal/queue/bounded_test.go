package queue

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewBounded_RejectsNonPositiveCapacity verifies construction fails fast.
func TestNewBounded_RejectsNonPositiveCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{0, -1} {
		q, err := NewBounded[int](capacity)
		require.ErrorIs(t, err, ErrCapacityMisconfigured)
		require.Nil(t, q)
	}

	q, err := NewBounded[int](3)
	require.NoError(t, err)
	require.Equal(t, 3, q.Cap())
	require.Zero(t, q.Len())
}

// TestBounded_FIFO checks values leave in insertion order.
func TestBounded_FIFO(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	q, err := NewBounded[string](3)
	require.NoError(t, err)

	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, q.Insert(ctx, v))
	}

	require.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Remove(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	require.Zero(t, q.Len())
}

// TestBounded_InsertBlocksWhenFull ensures a full queue parks the producer until a slot frees.
func TestBounded_InsertBlocksWhenFull(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()

		q, err := NewBounded[int](1)
		require.NoError(t, err)
		require.NoError(t, q.Insert(ctx, 1))

		inserted := make(chan struct{})

		go func() {
			defer close(inserted)

			if err := q.Insert(ctx, 2); err != nil {
				t.Errorf("insert: %v", err)
			}
		}()

		synctest.Wait()

		select {
		case <-inserted:
			t.Fatal("insert into a full queue returned early")
		default:
		}

		require.Equal(t, 1, q.Len())

		got, err := q.Remove(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, got)

		<-inserted

		got, err = q.Remove(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, got)
	})
}

// TestBounded_RemoveBlocksWhenEmpty ensures consumers wait for a value.
func TestBounded_RemoveBlocksWhenEmpty(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()

		q, err := NewBounded[int](2)
		require.NoError(t, err)

		result := make(chan int, 1)

		go func() {
			v, err := q.Remove(ctx)
			if err != nil {
				t.Errorf("remove: %v", err)
			}

			result <- v
		}()

		time.Sleep(time.Hour)
		synctest.Wait()
		require.Empty(t, result)

		require.NoError(t, q.Insert(ctx, 42))
		require.Equal(t, 42, <-result)
	})
}

// TestBounded_Cancellation verifies cancelled waits fail with ErrCancelled and leave the queue intact.
func TestBounded_Cancellation(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		q, err := NewBounded[int](1)
		require.NoError(t, err)

		// Empty queue: Remove unwinds on deadline.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err = q.Remove(ctx)
		require.ErrorIs(t, err, ErrCancelled)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		// Full queue: Insert unwinds on cancel and does not add the value.
		require.NoError(t, q.Insert(context.Background(), 1))

		ctx, cancel = context.WithCancel(context.Background())
		errs := make(chan error, 1)

		go func() {
			errs <- q.Insert(ctx, 2)
		}()

		synctest.Wait()
		cancel()

		err = <-errs
		require.ErrorIs(t, err, ErrCancelled)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, q.Len())

		// A context that is already done never inserts, even with free space.
		v, err := q.Remove(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, v)
		require.ErrorIs(t, q.Insert(ctx, 3), ErrCancelled)
		require.Zero(t, q.Len())
	})
}

// TestBounded_ConcurrentHandOff moves many values through a small queue and checks
// nothing is lost, duplicated, or over capacity.
func TestBounded_ConcurrentHandOff(t *testing.T) {
	t.Parallel()

	const (
		capacity  = 4
		producers = 8
		perWorker = 250
	)

	ctx := context.Background()

	q, err := NewBounded[int](capacity)
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]int, producers*perWorker)
	)

	for p := range producers {
		wg.Go(func() {
			for i := range perWorker {
				if err := q.Insert(ctx, p*perWorker+i); err != nil {
					t.Errorf("insert: %v", err)
					return
				}

				if n := q.Len(); n > capacity {
					t.Errorf("queue length %d exceeds capacity", n)
				}
			}
		})
	}

	for range producers {
		wg.Go(func() {
			for range perWorker {
				v, err := q.Remove(ctx)
				if err != nil {
					t.Errorf("remove: %v", err)
					return
				}

				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	require.Len(t, seen, producers*perWorker)

	for v, n := range seen {
		require.Equal(t, 1, n, "value %d delivered %d times", v, n)
	}
}
