package alarm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"testing/synctest"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

var errTestBoom = errors.New("boom")

// fakeService implements the Service interface for unit testing the transport.
type fakeService struct {
	// submitFn overrides Submit when set.
	submitFn func(ctx context.Context, a domain.Alarm) (scheduler.Admission, error)
	// stats is returned by Stats.
	stats scheduler.Stats
	// submitted records alarms passed to Submit.
	submitted []domain.Alarm
}

// Submit records the alarm and delegates to submitFn or admits it with a fresh ID.
func (f *fakeService) Submit(ctx context.Context, a domain.Alarm) (scheduler.Admission, error) {
	f.submitted = append(f.submitted, a)

	if f.submitFn != nil {
		return f.submitFn(ctx, a)
	}

	return scheduler.Admission{
		ID:         ulid.Make(),
		Alarm:      a,
		AdmittedAt: time.Now(),
	}, nil
}

// Stats returns the canned statistics.
func (f *fakeService) Stats() scheduler.Stats { return f.stats }

// TestServer_Submit_Validation ensures malformed requests return InvalidArgument errors.
func TestServer_Submit_Validation(t *testing.T) {
	t.Parallel()

	svc := new(fakeService)
	s := NewServer(svc)

	_, err := s.Submit(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	noDueTime, err := structpb.NewStruct(map[string]any{"label": "tea"})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), noDueTime)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	badDueTime, err := structpb.NewStruct(map[string]any{"label": "tea", "due_time": "tomorrow"})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), badDueTime)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	numericLabel, err := structpb.NewStruct(map[string]any{"label": 7, "due_time": "2026-10-18T07:00:00Z"})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), numericLabel)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	require.Empty(t, svc.submitted)
}

// TestServer_Submit_ErrorMapping checks scheduler errors become the documented status codes.
func TestServer_Submit_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: %w", scheduler.ErrInvalidAlarm, domain.ErrLabelRequired), codes.InvalidArgument},
		{fmt.Errorf("%w: stale", scheduler.ErrAlreadyPastDue), codes.FailedPrecondition},
		{fmt.Errorf("%w: %w", scheduler.ErrCancelled, context.Canceled), codes.Canceled},
		{fmt.Errorf("%w: %w", scheduler.ErrCancelled, context.DeadlineExceeded), codes.DeadlineExceeded},
		{errTestBoom, codes.Internal},
	}

	for _, tc := range cases {
		svc := &fakeService{
			submitFn: func(context.Context, domain.Alarm) (scheduler.Admission, error) {
				return scheduler.Admission{}, tc.err
			},
		}

		req, err := EncodeSubmitRequest(domain.New(time.Now().Add(time.Hour), "tea"), "")
		require.NoError(t, err)

		_, err = NewServer(svc).Submit(context.Background(), req)
		require.Equal(t, tc.want, status.Code(err), tc.err.Error())
	}
}

// TestServer_Submit_Roundtrip sends a request through the real scheduler and decodes the admission.
func TestServer_Submit_Roundtrip(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := logger.ToContext(context.Background(), zap.NewNop().Sugar())

		sched, err := scheduler.New(1)
		require.NoError(t, err)

		s := NewServer(sched)
		due := time.Now().Add(time.Minute)

		req, err := EncodeSubmitRequest(domain.New(due, "stand-up"), "o.shokin@desk")
		require.NoError(t, err)

		resp, err := s.Submit(ctx, req)
		require.NoError(t, err)

		admission, err := DecodeAdmission(resp)
		require.NoError(t, err)
		require.NotZero(t, admission.ID)
		require.Equal(t, "stand-up", admission.Alarm.Label)
		require.True(t, admission.Alarm.DueTime.Equal(due))

		statsResp, err := s.Stats(ctx, new(emptypb.Empty))
		require.NoError(t, err)

		stats, err := DecodeStats(statsResp)
		require.NoError(t, err)
		require.Equal(t, sched.Stats(), stats)
		require.Equal(t, 1, stats.Queued)

		fired, err := sched.RunOnce(ctx)
		require.NoError(t, err)
		require.Equal(t, admission.ID, fired.ID)
	})
}

// TestAlarmScheduler_OverBufconn exercises the hand-written service descriptor over an in-memory connection.
func TestAlarmScheduler_OverBufconn(t *testing.T) {
	t.Parallel()

	lis := bufconn.Listen(1 << 20)

	svc := &fakeService{
		stats: scheduler.Stats{Capacity: 5, Queued: 2, Admitted: 9, Fired: 7},
	}

	interceptedMethods := make(chan string, 4)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(
		func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			interceptedMethods <- info.FullMethod

			return handler(ctx, req)
		},
	))
	RegisterAlarmSchedulerServer(grpcServer, NewServer(svc))

	go func() {
		_ = grpcServer.Serve(lis)
	}()

	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
	})

	client := NewAlarmSchedulerClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := EncodeSubmitRequest(domain.New(time.Now().Add(time.Hour), "backup"), "")
	require.NoError(t, err)

	resp, err := client.Submit(ctx, req)
	require.NoError(t, err)

	admission, err := DecodeAdmission(resp)
	require.NoError(t, err)
	require.Equal(t, "backup", admission.Alarm.Label)
	require.Len(t, svc.submitted, 1)

	statsResp, err := client.Stats(ctx, new(emptypb.Empty))
	require.NoError(t, err)

	stats, err := DecodeStats(statsResp)
	require.NoError(t, err)
	require.Equal(t, svc.stats, stats)

	require.Equal(t, SubmitMethod, <-interceptedMethods)
	require.Equal(t, StatsMethod, <-interceptedMethods)
}

// TestDecodeAdmission_Malformed covers payloads missing or corrupting required fields.
func TestDecodeAdmission_Malformed(t *testing.T) {
	t.Parallel()

	_, err := DecodeAdmission(nil)
	require.Error(t, err)

	badID, err := structpb.NewStruct(map[string]any{
		"id":          "not-a-ulid",
		"label":       "tea",
		"due_time":    "2026-10-18T07:00:00Z",
		"admitted_at": "2026-10-18T06:00:00Z",
	})
	require.NoError(t, err)

	_, err = DecodeAdmission(badID)
	require.ErrorIs(t, err, ErrMalformedMessage)

	missingAdmittedAt, err := structpb.NewStruct(map[string]any{
		"id":       ulid.Make().String(),
		"label":    "tea",
		"due_time": "2026-10-18T07:00:00Z",
	})
	require.NoError(t, err)

	_, err = DecodeAdmission(missingAdmittedAt)
	require.ErrorIs(t, err, ErrMalformedMessage)
}
