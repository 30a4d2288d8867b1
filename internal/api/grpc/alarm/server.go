package alarm

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Service abstracts the scheduler operations the transport layer depends on.
type Service interface {
	Submit(ctx context.Context, a domain.Alarm) (scheduler.Admission, error)
	Stats() scheduler.Stats
}

// Server implements the AlarmScheduler gRPC API.
type Server struct {
	// service admits alarms and reports statistics.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Submit admits an alarm. The call blocks while the scheduler queue is full,
// so backpressure reaches remote producers as latency.
func (s *Server) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	a, actor, err := DecodeSubmitRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if actor != "" {
		ctx = logger.WithKV(ctx, "actor", actor)
	}

	admission, err := s.service.Submit(ctx, a)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := EncodeAdmission(admission)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode admission")
	}

	return resp, nil
}

// Stats returns the scheduler statistics.
func (s *Server) Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	resp, err := EncodeStats(s.service.Stats())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode stats")
	}

	return resp, nil
}

// toStatus maps scheduler errors to gRPC status errors.
func toStatus(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrInvalidAlarm):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, scheduler.ErrAlreadyPastDue):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, scheduler.ErrCancelled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "unable to submit alarm")
	}
}
