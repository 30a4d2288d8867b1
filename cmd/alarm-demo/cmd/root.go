package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/demo"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// options collects the demo flags.
	options = demo.Options{}
	// logLevel is a zap level name.
	logLevel string

	// rootCmd represents the base command for the local demo.
	rootCmd = &cobra.Command{
		Use:   "alarm-demo",
		Short: "Run producers and consumers against a local alarm scheduler.",
		Long: `Runs an in-process alarm scheduler without a server.

Producers are started one per --spawn-interval; producer i submits "Alarm i"
due --first-due + i*--due-step from its start. Consumers start after
--consumer-delay and ring alarms in submission order. Producers beyond the
capacity block until a consumer frees a slot. The demo exits once every alarm
has rung or been rejected.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			lvl, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(lvl)

			return demo.Run(ctx, &options)
		},
	}
)

// Execute runs the alarm-demo CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.IntVar(&options.Capacity, "capacity", config.DefaultCapacity, "queue capacity and gate size")
	flags.IntVarP(&options.Producers, "producers", "p", demo.DefaultProducers, "number of alarms to submit")
	flags.IntVarP(&options.Consumers, "consumers", "n", demo.DefaultConsumers, "number of consumer goroutines")
	flags.DurationVar(&options.FirstDue, "first-due", demo.DefaultFirstDue, "due offset of the first alarm")
	flags.DurationVar(&options.DueStep, "due-step", demo.DefaultDueStep, "due offset added per producer")
	flags.DurationVar(&options.SpawnInterval, "spawn-interval", demo.DefaultSpawnInterval, "delay between producers")
	flags.DurationVar(&options.ConsumerDelay, "consumer-delay", demo.DefaultConsumerDelay, "delay before consumers start")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
}
