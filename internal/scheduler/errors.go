package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-clock/internal/queue"
)

var (
	// ErrAlreadyPastDue is returned by Submit for alarms whose due time is not in the future.
	ErrAlreadyPastDue = errors.New("alarm is already past due")
	// ErrInvalidAlarm is returned by Submit for alarms missing a due time or a label.
	ErrInvalidAlarm = errors.New("invalid alarm")
	// ErrCancelled matches errors from blocking calls interrupted by their context.
	ErrCancelled = queue.ErrCancelled
	// ErrCapacityMisconfigured is returned by New for a non-positive capacity.
	ErrCapacityMisconfigured = queue.ErrCapacityMisconfigured
)

// cancelled builds the error returned when ctx interrupts a wait.
func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
}
