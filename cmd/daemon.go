package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/daemon"
)

// daemonCmd is the parent command for the background scheduler.
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background scan scheduler.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// daemonRunCmd runs the scheduler loop in the foreground.
var daemonRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler loop in the foreground.",
	Long: `Run the background scheduler in the foreground until interrupted.

The scheduler wakes periodically and runs a scan when automation is enabled,
the license allows it and the configured cadence is due. With auto-fix enabled
it also applies safe fixes and records them in the changelog.

Example:
  hspc config set --automation on --schedule daily
  hspc daemon run`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine()
		if err != nil {
			contract.LogFatal("Cannot build scan engine", err)
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open scan store", err)
		}
		defer func() { _ = store.Close() }()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		var opts []daemon.Option
		if interval := viper.GetDuration("wake-interval"); interval > 0 {
			opts = append(opts, daemon.WithWakeInterval(interval))
		}
		d := daemon.New(engine, store, licenseManager(), logger, opts...)

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("scheduler started")
		if err := d.Run(ctx); err != nil && ctx.Err() == nil {
			contract.LogFatal("Scheduler stopped unexpectedly", err)
		}
		logger.Info("scheduler stopped")
	},
}
