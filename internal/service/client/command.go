package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/scheduler"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options configures a single alarm submission.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Label names the alarm.
	Label string

	// In is the delay from now until the alarm is due. Mutually exclusive with At.
	In time.Duration

	// At is the absolute due time. Mutually exclusive with In.
	At time.Time
}

// defaultPushInterval defines retry delay when the server is unavailable.
const defaultPushInterval = 1 * time.Second

var (
	// ErrDueTimeAmbiguous is returned when both In and At are set.
	ErrDueTimeAmbiguous = errors.New("only one of --in and --at may be set")
	// ErrDueTimeMissing is returned when neither In nor At is set.
	ErrDueTimeMissing = errors.New("one of --in or --at must be set")
)

// submitter is the part of common.Client used by Run.
type submitter interface {
	Submit(ctx context.Context, a alarm.Alarm, actor string) (scheduler.Admission, error)
}

// Run submits one alarm, retrying while the server is unavailable.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-submit")

	a, err := opts.alarm(time.Now())
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	cfg.ApplyLogLevel()

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for audit logging.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(
		ctx,
		"Submitting alarm",
		"server_address", serverAddress,
		"label", a.Label,
		"due_time", a.DueTime.Format(time.RFC3339),
	)

	adm, err := submitWithRetry(ctx, client, a, actor, defaultPushInterval)
	if err != nil {
		return err
	}

	logger.InfoKV(
		ctx,
		"Alarm admitted",
		"id", adm.ID.String(),
		"label", adm.Alarm.Label,
		"due_time", adm.Alarm.DueTime.Format(time.RFC3339),
		"admitted_at", adm.AdmittedAt.Format(time.RFC3339),
	)

	return nil
}

// alarm builds the alarm described by the options relative to now.
func (o *Options) alarm(now time.Time) (alarm.Alarm, error) {
	var due time.Time

	switch {
	case o.In != 0 && !o.At.IsZero():
		return alarm.Alarm{}, ErrDueTimeAmbiguous
	case o.In != 0:
		due = now.Add(o.In)
	case !o.At.IsZero():
		due = o.At
	default:
		return alarm.Alarm{}, ErrDueTimeMissing
	}

	a := alarm.New(due, o.Label)
	if err := a.Validate(); err != nil {
		return alarm.Alarm{}, err
	}

	return a, nil
}

// submitWithRetry calls Submit once, then again every interval while the
// server reports Unavailable.
func submitWithRetry(
	ctx context.Context,
	client submitter,
	a alarm.Alarm,
	actor string,
	interval time.Duration,
) (scheduler.Admission, error) {
	// attempt tries once, returns (admission, completed, error).
	attempt := func() (scheduler.Admission, bool, error) {
		adm, err := client.Submit(ctx, a, actor)
		if err == nil {
			return adm, true, nil
		}

		if status.Code(err) == codes.Unavailable {
			logger.WarnKV(ctx, "Submit failed, retrying", "error", err)

			return scheduler.Admission{}, false, nil
		}

		return scheduler.Admission{}, false, err
	}

	if adm, done, err := attempt(); err != nil || done {
		return adm, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return scheduler.Admission{}, fmt.Errorf("submit alarm: %w", ctx.Err())
		case <-ticker.C:
			if adm, done, err := attempt(); err != nil || done {
				return adm, err
			}
		}
	}
}
