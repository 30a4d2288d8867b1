package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/client"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// label names the submitted alarm.
	label string
	// in is the relative due time.
	in time.Duration
	// at is the absolute due time in RFC3339.
	at string

	// rootCmd represents the base command for submitting an alarm.
	rootCmd = &cobra.Command{
		Use:   "alarm-submit [server-address]",
		Short: "Submit an alarm to the alarm server.",
		Long: `Submits one alarm to alarm-server and prints its admission ID.

The due time is given either relative to now (--in 10m) or as an RFC3339
timestamp (--at 2025-01-01T07:30:00+03:00). Alarms that are already due are
rejected by the server. The request is retried every second while the server
is unavailable. When the server queue is full the call waits for a free slot
up to the configured timeout.
Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			var dueAt time.Time

			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}

				dueAt = parsed
			}

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Label:         label,
				In:            in,
				At:            dueAt,
			})
		},
	}
)

// Execute runs the alarm-submit CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&label, "label", "l", "", "alarm label")
	rootCmd.Flags().DurationVar(&in, "in", 0, "ring after this duration, e.g. 90s or 10m")
	rootCmd.Flags().StringVar(&at, "at", "", "ring at this RFC3339 time")

	if err := rootCmd.MarkFlagRequired("label"); err != nil {
		panic(err)
	}

	rootCmd.MarkFlagsMutuallyExclusive("in", "at")
	rootCmd.MarkFlagsOneRequired("in", "at")
}
