//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Client talks to alarm-server in domain types.
type Client struct {
	conn *grpc.ClientConn
	api  api.AlarmSchedulerClient

	// callTimeout bounds each RPC; zero disables the bound.
	callTimeout time.Duration
	// dialOptions are appended after the default insecure credentials.
	dialOptions []grpc.DialOption
}

// Option configures a Client.
type Option func(*Client)

// WithCallTimeout bounds each RPC. Non-positive values keep the default.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions passes extra options to grpc.NewClient, e.g. a custom dialer.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

var (
	errAddressRequired = errors.New("address must be provided")
	errNotConnected    = errors.New("client is not connected")
)

// Dial creates a client for the alarm server at address.
// The connection is plaintext and established lazily on the first call.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	c := &Client{
		callTimeout: config.DefaultTimeout,
		dialOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	conn, err := grpc.NewClient(address, c.dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	c.conn = conn
	c.api = api.NewAlarmSchedulerClient(conn)

	return c, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Submit sends a to the server and returns its admission receipt.
// The server holds the call while its queue is full, up to the call timeout.
// Errors keep their gRPC status so callers can branch on status.Code.
func (c *Client) Submit(ctx context.Context, a alarm.Alarm, actor string) (scheduler.Admission, error) {
	if c == nil || c.api == nil {
		return scheduler.Admission{}, errNotConnected
	}

	req, err := api.EncodeSubmitRequest(a, actor)
	if err != nil {
		return scheduler.Admission{}, err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Submit(ctx, req)
	if err != nil {
		return scheduler.Admission{}, fmt.Errorf("submit alarm: %w", err)
	}

	return api.DecodeAdmission(resp)
}

// Stats fetches a snapshot of the server scheduler.
func (c *Client) Stats(ctx context.Context) (scheduler.Stats, error) {
	if c == nil || c.api == nil {
		return scheduler.Stats{}, errNotConnected
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Stats(ctx, new(emptypb.Empty))
	if err != nil {
		return scheduler.Stats{}, fmt.Errorf("get stats: %w", err)
	}

	return api.DecodeStats(resp)
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
