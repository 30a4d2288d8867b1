package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "alarmclock.v1.AlarmScheduler"
	// SubmitMethod is the full method name of Submit.
	SubmitMethod = "/" + ServiceName + "/Submit"
	// StatsMethod is the full method name of Stats.
	StatsMethod = "/" + ServiceName + "/Stats"
)

// AlarmSchedulerServer is the server API of the alarm scheduler service.
type AlarmSchedulerServer interface {
	Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Stats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// AlarmSchedulerClient is the client API of the alarm scheduler service.
type AlarmSchedulerClient interface {
	Submit(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Stats(ctx context.Context, req *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// RegisterAlarmSchedulerServer registers srv on the provided gRPC server.
func RegisterAlarmSchedulerServer(s grpc.ServiceRegistrar, srv AlarmSchedulerServer) {
	s.RegisterService(&serviceDesc, srv)
}

// NewAlarmSchedulerClient returns a client stub bound to cc.
//
//nolint:ireturn // Mirrors generated gRPC constructors.
func NewAlarmSchedulerClient(cc grpc.ClientConnInterface) AlarmSchedulerClient {
	return &alarmSchedulerClient{cc: cc}
}

// alarmSchedulerClient invokes the service methods over a client connection.
type alarmSchedulerClient struct {
	cc grpc.ClientConnInterface
}

func (c *alarmSchedulerClient) Submit(
	ctx context.Context,
	req *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SubmitMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *alarmSchedulerClient) Stats(
	ctx context.Context,
	req *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, StatsMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

//nolint:gochecknoglobals // Service descriptors are static by nature.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmSchedulerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Submit",
			Handler:    submitHandler,
		},
		{
			MethodName: "Stats",
			Handler:    statsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmclock/v1/alarm_scheduler.proto",
}

func submitHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(AlarmSchedulerServer).Submit(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SubmitMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmSchedulerServer).Submit(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

func statsHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(AlarmSchedulerServer).Stats(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: StatsMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmSchedulerServer).Stats(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}
