package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Options configures a demo run.
type Options struct {
	// Capacity sizes the queue and both gates.
	Capacity int
	// Producers is the number of alarms submitted, one per producer.
	Producers int
	// Consumers is the number of goroutines firing alarms.
	Consumers int
	// FirstDue is the offset of the first alarm from its submission time.
	FirstDue time.Duration
	// DueStep is added to the offset for each following producer.
	DueStep time.Duration
	// SpawnInterval separates producer start times.
	SpawnInterval time.Duration
	// ConsumerDelay is how long consumers wait before starting.
	ConsumerDelay time.Duration
}

// Default values reproduce the classic ten-alarm run.
const (
	DefaultProducers     = 10
	DefaultConsumers     = 10
	DefaultFirstDue      = 10 * time.Second
	DefaultDueStep       = time.Second
	DefaultSpawnInterval = 100 * time.Millisecond
	DefaultConsumerDelay = time.Second
)

var (
	// ErrNoProducers is returned when Producers is not positive.
	ErrNoProducers = errors.New("at least one producer is required")
	// ErrNoConsumers is returned when Consumers is not positive.
	ErrNoConsumers = errors.New("at least one consumer is required")
)

// Run executes the demo and blocks until every alarm is settled or ctx ends.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-demo")

	stats, err := run(ctx, opts)
	if err != nil {
		return err
	}

	logger.InfoKV(
		ctx,
		"Demo finished",
		"admitted", stats.Admitted,
		"rejected", stats.Rejected,
		"fired", stats.Fired,
		"cancelled", stats.Cancelled,
	)

	return nil
}

// run does the work of Run and returns the final scheduler statistics.
//
//nolint:funlen // Producer and consumer wiring reads best in one place.
func run(ctx context.Context, opts *Options) (scheduler.Stats, error) {
	if opts.Producers <= 0 {
		return scheduler.Stats{}, ErrNoProducers
	}

	if opts.Consumers <= 0 {
		return scheduler.Stats{}, ErrNoConsumers
	}

	settled := newCountdown(opts.Producers)

	sched, err := scheduler.New(opts.Capacity, scheduler.WithObserver(func(e scheduler.Event) {
		if e.Kind == scheduler.EventRinging || e.Kind == scheduler.EventRejected {
			settled.done()
		}
	}))
	if err != nil {
		return scheduler.Stats{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.InfoKV(
		ctx,
		"Demo starting",
		"capacity", opts.Capacity,
		"producers", opts.Producers,
		"consumers", opts.Consumers,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return spawnProducers(gctx, sched, opts)
	})

	g.Go(func() error {
		return startConsumers(gctx, sched, opts)
	})

	g.Go(func() error {
		select {
		case <-settled.wait():
			logger.Info(gctx, "All alarms settled")
			cancel()
		case <-gctx.Done():
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return sched.Stats(), err
	}

	return sched.Stats(), nil
}

// spawnProducers starts one producer per SpawnInterval. Each submits a single alarm.
func spawnProducers(ctx context.Context, sched *scheduler.Scheduler, opts *Options) error {
	// A non-positive interval yields an unlimited limiter.
	limiter := rate.NewLimiter(rate.Every(opts.SpawnInterval), 1)

	producers, ctx := errgroup.WithContext(ctx)

	for i := range opts.Producers {
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		label := fmt.Sprintf("Alarm %d", i)
		offset := opts.FirstDue + time.Duration(i)*opts.DueStep

		producers.Go(func() error {
			return produce(ctx, sched, alarm.New(time.Now().Add(offset), label))
		})
	}

	return producers.Wait()
}

// produce submits a and treats rejections and shutdown as normal outcomes.
func produce(ctx context.Context, sched *scheduler.Scheduler, a alarm.Alarm) error {
	_, err := sched.Submit(ctx, a)

	switch {
	case err == nil, errors.Is(err, scheduler.ErrAlreadyPastDue), errors.Is(err, scheduler.ErrCancelled):
		return nil
	default:
		return fmt.Errorf("submit %q: %w", a.Label, err)
	}
}

// startConsumers waits ConsumerDelay, then runs Consumers workers until ctx ends.
func startConsumers(ctx context.Context, sched *scheduler.Scheduler, opts *Options) error {
	timer := time.NewTimer(opts.ConsumerDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil
	}

	logger.InfoKV(ctx, "Consumers starting", "queued", sched.Stats().Queued)

	consumers, ctx := errgroup.WithContext(ctx)

	for i := range opts.Consumers {
		workerCtx := logger.WithKV(ctx, "consumer", i)

		consumers.Go(func() error {
			err := sched.Run(workerCtx)
			if errors.Is(err, scheduler.ErrCancelled) {
				return nil
			}

			return err
		})
	}

	return consumers.Wait()
}

// countdown closes its channel after done has been called n times.
type countdown struct {
	left atomic.Int64
	once sync.Once
	ch   chan struct{}
}

func newCountdown(n int) *countdown {
	c := &countdown{ch: make(chan struct{})}
	c.left.Store(int64(n))

	return c
}

func (c *countdown) done() {
	if c.left.Add(-1) == 0 {
		c.once.Do(func() { close(c.ch) })
	}
}

func (c *countdown) wait() <-chan struct{} {
	return c.ch
}
