package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Options controls the alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// Capacity overrides the configured queue capacity when positive.
	Capacity int
	// Workers overrides the configured number of consumers when positive.
	Workers int
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the scheduler workers and the gRPC server and blocks until ctx
// is cancelled or one of them fails.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	settings.ApplyLogLevel()
	applyOverrides(settings, opts)

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	sched, err := scheduler.New(settings.Capacity)
	if err != nil {
		return fmt.Errorf("initialise scheduler: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterAlarmSchedulerServer(grpcServer, api.NewServer(sched))

	logger.InfoKV(
		ctx,
		"Alarm server listening",
		"listen_address", listenAddress,
		"capacity", settings.Capacity,
		"workers", settings.Workers,
	)

	g, gctx := errgroup.WithContext(ctx)

	for i := range settings.Workers {
		workerCtx := logger.WithKV(gctx, "worker", i)

		g.Go(func() error {
			return runWorker(workerCtx, sched)
		})
	}

	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		stopServer(ctx, grpcServer, settings.Timeout)

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	stats := sched.Stats()
	logger.InfoKV(
		ctx,
		"Alarm server stopped",
		"admitted", stats.Admitted,
		"rejected", stats.Rejected,
		"fired", stats.Fired,
		"dropped", stats.Queued,
	)

	return nil
}

// applyOverrides copies positive command line values over the loaded settings.
// Workers follow an overridden capacity unless set explicitly.
func applyOverrides(settings *config.Config, opts *Options) {
	if opts.Capacity > 0 {
		if settings.Workers == settings.Capacity {
			settings.Workers = opts.Capacity
		}

		settings.Capacity = opts.Capacity
	}

	if opts.Workers > 0 {
		settings.Workers = opts.Workers
	}
}

// runWorker fires alarms until ctx is cancelled.
func runWorker(ctx context.Context, sched *scheduler.Scheduler) error {
	err := sched.Run(ctx)
	if errors.Is(err, scheduler.ErrCancelled) {
		return nil
	}

	return err
}

// stopServer drains in-flight calls and forces a stop once timeout elapses.
// Submit calls blocked on a full queue would otherwise hold GracefulStop forever.
func stopServer(ctx context.Context, grpcServer *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})

	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		logger.Warn(ctx, "Graceful shutdown timed out, closing remaining connections")
		grpcServer.Stop()
		<-done
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}
