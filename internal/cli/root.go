package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/afkham/recurring-meeting-optimizer/internal/bootstrap"
	"github.com/afkham/recurring-meeting-optimizer/internal/config"
	"github.com/afkham/recurring-meeting-optimizer/internal/core/usecase"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/runstate"
	"github.com/afkham/recurring-meeting-optimizer/internal/observability/logging"
	"github.com/afkham/recurring-meeting-optimizer/internal/observability/metrics"
)

const serviceName = "recurring-meeting-optimizer"

// NewRootCommand builds the one command this tool has: evaluate today's
// recurring meetings and cancel the ones with nothing to discuss.
func NewRootCommand() *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:          "optimizer",
		Short:        "Cancel today's recurring meetings that have no agenda topics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), dryRun, force)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log what would be cancelled without making changes")
	cmd.Flags().BoolVar(&force, "force", false, "run even if a successful run already happened today")
	return cmd
}

func run(ctx context.Context, dryRun, force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.NewJSONLogger(serviceName, uuid.NewString(), cfg.LogLevel)
	if dryRun {
		log.Info("dry_run_mode", "note", "no meetings will be cancelled")
	}
	log.Info("optimizer_starting")

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	tzName, err := app.Calendar.UserTimezone(ctx)
	if err != nil {
		return fmt.Errorf("resolve user timezone: %w", err)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tzName, err)
	}
	today := time.Now().In(loc)
	log.Info("run_context", "timezone", tzName, "date", today.Format("2006-01-02"))

	marker := runstate.New(cfg.StatePath)
	if !dryRun && !force && marker.RanOn(today) {
		log.Info("already_ran_successfully_today", "state_path", cfg.StatePath)
		return nil
	}

	runMetrics := metrics.NewRunMetrics()
	sweeper := usecase.NewSweepUseCase(usecase.SweepParams{
		Calendar:  app.Calendar,
		Docs:      app.Docs,
		Canceller: usecase.NewCancelOccurrenceUseCase(app.Calendar, log),
		Log:       log,
		Recorder:  runMetrics,
		Today:     today,
		Location:  loc,
		DryRun:    dryRun,
	})

	start := time.Now()
	summary, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	runMetrics.SetRunDuration(time.Since(start))

	if cfg.MetricsPushURL != "" {
		if err := runMetrics.Push(cfg.MetricsPushURL, cfg.MetricsJob); err != nil {
			log.Warn("metrics_push_failed", "gateway", cfg.MetricsPushURL, "error", err)
		}
	}

	if !dryRun {
		if err := marker.MarkSuccess(today); err != nil {
			log.Warn("run_marker_write_failed", "state_path", cfg.StatePath, "error", err)
		}
	}

	log.Info("optimizer_finished",
		"evaluated", summary.Evaluated,
		"kept", summary.Kept,
		"cancelled", summary.Cancelled,
		"would_cancel", summary.WouldCancel,
		"errors", summary.Errors,
	)
	return nil
}
