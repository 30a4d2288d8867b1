package scheduler

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// EventKind tells which transition an Event reports.
type EventKind int

const (
	// EventAdmitted is emitted once an alarm has been queued.
	EventAdmitted EventKind = iota + 1
	// EventRejected is emitted when Submit refuses a past-due alarm.
	EventRejected
	// EventRinging is emitted when an alarm fires.
	EventRinging
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventAdmitted:
		return "admitted"
	case EventRejected:
		return "rejected"
	case EventRinging:
		return "ringing"
	default:
		return "unknown"
	}
}

// Event describes one alarm transition.
type Event struct {
	// Kind is the transition.
	Kind EventKind
	// ID is the admission ID. It is zero for rejected alarms.
	ID ulid.ULID
	// Alarm is the alarm the event is about.
	Alarm alarm.Alarm
	// At is when the transition happened.
	At time.Time
	// Late is how long after its due time a ringing alarm fired.
	Late time.Duration
}

// Observer receives events synchronously on the goroutine that caused them.
// It must not block for long: a slow observer slows the producer or consumer.
type Observer func(Event)

// Admission is the receipt of a successful Submit.
type Admission struct {
	// ID uniquely identifies the admitted alarm. IDs sort by admission time.
	ID ulid.ULID
	// Alarm is the admitted alarm.
	Alarm alarm.Alarm
	// AdmittedAt is when the alarm passed the due-time check.
	AdmittedAt time.Time
}

// Fired is the result of a successful RunOnce.
type Fired struct {
	Admission

	// FiredAt is when the alarm rang.
	FiredAt time.Time
	// Late is FiredAt minus the due time.
	Late time.Duration
}
