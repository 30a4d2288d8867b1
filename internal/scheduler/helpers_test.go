package scheduler

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// quietContext returns a context whose logger discards everything.
func quietContext() context.Context {
	return logger.ToContext(context.Background(), zap.NewNop().Sugar())
}

// newTestScheduler builds a scheduler and fails the test on error.
func newTestScheduler(t *testing.T, capacity int, opts ...Option) *Scheduler {
	t.Helper()

	s, err := New(capacity, opts...)
	require.NoError(t, err)

	return s
}

// recorder collects events emitted by a scheduler.
type recorder struct {
	// mu guards events; observers run on many goroutines.
	mu sync.Mutex
	// events holds every observed event in emission order.
	events []Event
}

// observe is an Observer appending e to the recorded events.
func (r *recorder) observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

// labels returns the labels of all recorded events of the given kind, in order.
func (r *recorder) labels(kind EventKind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var labels []string

	for _, e := range r.events {
		if e.Kind == kind {
			labels = append(labels, e.Alarm.Label)
		}
	}

	return labels
}

// requireAdmittedBeforeRinging asserts each ringing event follows the admitted event of the same alarm.
func (r *recorder) requireAdmittedBeforeRinging(t *testing.T) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.events {
		if e.Kind != EventRinging {
			continue
		}

		admitted := slices.IndexFunc(r.events[:i], func(prev Event) bool {
			return prev.Kind == EventAdmitted && prev.ID == e.ID
		})
		require.GreaterOrEqual(t, admitted, 0, "alarm %s rang before it was admitted", e.Alarm.Label)
	}
}
