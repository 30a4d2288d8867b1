package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDueTimeRequired is returned when an alarm has no due time.
	ErrDueTimeRequired = errors.New("alarm due time is required")
	// ErrLabelRequired is returned when an alarm has an empty label.
	ErrLabelRequired = errors.New("alarm label is required")
)

// Alarm is a point-in-time notification request.
type Alarm struct {
	// DueTime is the instant the alarm should ring at.
	DueTime time.Time
	// Label identifies the alarm in events and logs.
	Label string
}

// New builds an alarm. The monotonic clock reading is stripped so that
// alarms compare by wall-clock instant only.
func New(dueTime time.Time, label string) Alarm {
	return Alarm{
		DueTime: dueTime.Round(0),
		Label:   label,
	}
}

// Validate reports whether both required fields are present.
func (a Alarm) Validate() error {
	if a.DueTime.IsZero() {
		return ErrDueTimeRequired
	}

	if strings.TrimSpace(a.Label) == "" {
		return ErrLabelRequired
	}

	return nil
}

// Equal reports whether two alarms have the same label and due instant.
func (a Alarm) Equal(other Alarm) bool {
	return a.Label == other.Label && a.DueTime.Equal(other.DueTime)
}

// Compare orders alarms by due time, then by label.
// It returns -1, 0 or +1 like time.Time.Compare.
func (a Alarm) Compare(other Alarm) int {
	if c := a.DueTime.Compare(other.DueTime); c != 0 {
		return c
	}

	return strings.Compare(a.Label, other.Label)
}

// Until returns the time left before the alarm is due, measured from now.
// The result is zero or negative once the due time has passed.
func (a Alarm) Until(now time.Time) time.Duration {
	return a.DueTime.Sub(now)
}

// String renders the alarm for logs.
func (a Alarm) String() string {
	return fmt.Sprintf("%q at %s", a.Label, a.DueTime.Format(time.RFC3339Nano))
}
