package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/queue"
)

// Scheduler hands alarms from producers to consumers through a bounded queue.
// All methods are safe for concurrent use.
type Scheduler struct {
	// queue holds admitted alarms in arrival order.
	queue *queue.Bounded[ticket]
	// producers bounds concurrent Submit calls past the gate.
	producers *gate
	// consumers bounds concurrent RunOnce calls past the gate.
	consumers *gate
	// observers receive every event, in registration order.
	observers []Observer

	admitted  atomic.Uint64
	rejected  atomic.Uint64
	fired     atomic.Uint64
	cancelled atomic.Uint64
}

// ticket is a queued alarm.
type ticket struct {
	Admission

	// announced is closed once the admitted event has been emitted,
	// so that the ringing event can never overtake it.
	announced chan struct{}
}

// Stats is a point-in-time snapshot of a Scheduler.
type Stats struct {
	// Capacity is the queue capacity and the size of both gates.
	Capacity int
	// Queued is the number of alarms waiting to be taken by a consumer.
	Queued int
	// FreeProducerPermits is the number of Submit calls that could pass the gate right now.
	FreeProducerPermits int
	// FreeConsumerPermits is the number of RunOnce calls that could pass the gate right now.
	FreeConsumerPermits int
	// Admitted counts alarms queued since start.
	Admitted uint64
	// Rejected counts past-due alarms refused since start.
	Rejected uint64
	// Fired counts alarms that rang since start.
	Fired uint64
	// Cancelled counts Submit and RunOnce calls interrupted by their context.
	Cancelled uint64
}

// New creates a scheduler whose queue and gates all have the given capacity.
func New(capacity int, opts ...Option) (*Scheduler, error) {
	q, err := queue.NewBounded[ticket](capacity)
	if err != nil {
		return nil, fmt.Errorf("create alarm queue: %w", err)
	}

	s := &Scheduler{
		queue:     q,
		producers: newGate(capacity),
		consumers: newGate(capacity),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Capacity returns the queue capacity.
func (s *Scheduler) Capacity() int {
	return s.queue.Cap()
}

// Submit queues a for firing.
//
// It blocks while the producer gate has no free permit and while the queue is
// full. An alarm that is not due strictly after now is rejected with
// ErrAlreadyPastDue and never reaches the queue.
func (s *Scheduler) Submit(ctx context.Context, a alarm.Alarm) (Admission, error) {
	if err := a.Validate(); err != nil {
		return Admission{}, fmt.Errorf("%w: %w", ErrInvalidAlarm, err)
	}

	if err := s.producers.acquire(ctx); err != nil {
		s.cancelled.Add(1)

		return Admission{}, fmt.Errorf("acquire producer permit: %w", err)
	}
	defer s.producers.release()

	now := time.Now()
	if !a.DueTime.After(now) {
		s.rejected.Add(1)

		logger.WarnKV(ctx, "Alarm rejected", "label", a.Label, "due_time", a.DueTime, "now", now)
		s.emit(Event{
			Kind:  EventRejected,
			Alarm: a,
			At:    now,
		})

		return Admission{}, fmt.Errorf("%w: %s", ErrAlreadyPastDue, a)
	}

	t := ticket{
		Admission: Admission{
			ID:         ulid.Make(),
			Alarm:      a,
			AdmittedAt: now,
		},
		announced: make(chan struct{}),
	}

	if err := s.queue.Insert(ctx, t); err != nil {
		s.cancelled.Add(1)

		return Admission{}, fmt.Errorf("enqueue alarm %q: %w", a.Label, err)
	}
	defer close(t.announced)

	s.admitted.Add(1)

	logger.InfoKV(ctx, "Alarm admitted", "id", t.ID.String(), "label", a.Label, "due_time", a.DueTime)
	s.emit(Event{
		Kind:  EventAdmitted,
		ID:    t.ID,
		Alarm: a,
		At:    time.Now(),
	})

	return t.Admission, nil
}

// RunOnce takes the oldest queued alarm, waits until it is due and reports it
// as ringing. It blocks while the consumer gate has no free permit and while
// the queue is empty. An alarm already past its due time rings immediately.
//
// If ctx is cancelled after the alarm was dequeued, the alarm is dropped.
func (s *Scheduler) RunOnce(ctx context.Context) (Fired, error) {
	if err := s.consumers.acquire(ctx); err != nil {
		s.cancelled.Add(1)

		return Fired{}, fmt.Errorf("acquire consumer permit: %w", err)
	}
	defer s.consumers.release()

	t, err := s.queue.Remove(ctx)
	if err != nil {
		s.cancelled.Add(1)

		return Fired{}, fmt.Errorf("dequeue alarm: %w", err)
	}

	if err = waitUntilDue(ctx, t); err != nil {
		s.cancelled.Add(1)

		logger.WarnKV(ctx, "Alarm dropped before ringing", "id", t.ID.String(), "label", t.Alarm.Label, "error", err)

		return Fired{}, fmt.Errorf("wait for alarm %q: %w", t.Alarm.Label, err)
	}

	firedAt := time.Now()
	fired := Fired{
		Admission: t.Admission,
		FiredAt:   firedAt,
		Late:      firedAt.Sub(t.Alarm.DueTime),
	}

	s.fired.Add(1)

	logger.InfoKV(ctx, "Alarm ringing", "id", t.ID.String(), "label", t.Alarm.Label, "late", fired.Late)
	s.emit(Event{
		Kind:  EventRinging,
		ID:    t.ID,
		Alarm: t.Alarm,
		At:    firedAt,
		Late:  fired.Late,
	})

	return fired, nil
}

// Run calls RunOnce until it fails and returns that error.
// On shutdown the error matches ErrCancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// Stats returns a snapshot of the scheduler counters.
// Fields are read independently and may be mutually inconsistent under load.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Capacity:            s.queue.Cap(),
		Queued:              s.queue.Len(),
		FreeProducerPermits: s.producers.available(),
		FreeConsumerPermits: s.consumers.available(),
		Admitted:            s.admitted.Load(),
		Rejected:            s.rejected.Load(),
		Fired:               s.fired.Load(),
		Cancelled:           s.cancelled.Load(),
	}
}

func (s *Scheduler) emit(e Event) {
	for _, o := range s.observers {
		o(e)
	}
}

// waitUntilDue blocks until t is due and its admission has been announced.
func waitUntilDue(ctx context.Context, t ticket) error {
	select {
	case <-t.announced:
	case <-ctx.Done():
		return cancelled(ctx)
	}

	wait := time.Until(t.Alarm.DueTime)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return cancelled(ctx)
	}
}
