package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/server"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// serverOptions collects flag values; ListenAddress comes from the argument.
	serverOptions = server.Options{}

	rootCmd = &cobra.Command{
		Use:   "alarm-server [listen-address]",
		Short: "Queue alarms and ring them when due.",
		Long: `Runs the alarm scheduler behind a gRPC API.

Clients submit alarms with alarm-submit. Alarms already due are rejected; the
rest wait in a bounded queue and ring in submission order once due. When the
queue is full, Submit calls wait for a free slot.

capacity and workers come from the configuration file unless --capacity or
--workers is given. The listen port is taken from server_addr (e.g. :8080)
unless a listen address argument is passed (e.g. :9090, 0.0.0.0:8080).
Queued alarms live in memory and are dropped on shutdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			if len(args) > 0 {
				serverOptions.ListenAddress = args[0]
			}

			return server.Run(ctx, &serverOptions)
		},
	}
)

// Execute runs the alarm-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&serverOptions.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.IntVar(&serverOptions.Capacity, "capacity", 0, "queue capacity, overrides the configuration file")
	flags.IntVarP(&serverOptions.Workers, "workers", "w", 0, "consumer goroutines, overrides the configuration file")
}
