package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/afkham/recurring-meeting-optimizer/internal/config"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/auth"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/calendar"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/docs"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/googleapi"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/resilience"
)

// App wires the authorized Google adapters for one run.
type App struct {
	Config   config.Config
	Calendar *calendar.Client
	Docs     *docs.Client
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	httpClient, err := auth.NewHTTPClient(ctx, auth.Options{
		CredentialsPath: cfg.CredentialsPath,
		TokenPath:       cfg.TokenPath,
		HTTPTimeout:     cfg.HTTPTimeout,
		Log:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("authorize google client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.APIRateLimit), burst(cfg.APIRateLimit))

	execCfg := resilience.DefaultConfig()
	execCfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	exec := resilience.NewExecutor(execCfg)

	api := googleapi.NewClient(httpClient, limiter, exec)

	return &App{
		Config:   cfg,
		Calendar: calendar.New(api, "", cfg.CalendarID),
		Docs:     docs.New(api, ""),
	}, nil
}

func burst(limit float64) int {
	if limit < 1 {
		return 1
	}
	return int(limit)
}
