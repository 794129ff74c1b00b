// Package cli wires configuration, logging and the ledger together for the
// eatsplit commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"eatsplit/internal/backend"
	"eatsplit/internal/config"
	"eatsplit/internal/ledger"
	applog "eatsplit/internal/log"
	"eatsplit/internal/metrics"
	"eatsplit/internal/session"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from config, writes it to w and
// sets it as the default logger.
func SetupLogger(cfg *config.Config, w io.Writer) *applog.Logger {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    w,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is an assembled ledger session with the resources behind it.
type App struct {
	Session *session.Session
	Metrics *metrics.Collector
	backend *backend.Result
}

// Close releases the store and the event publisher.
func (a *App) Close() error {
	return a.backend.Close()
}

// BuildApp creates the store, seeds it, and builds a session over a ledger
// that reports to collector and publishes to the broker when configured.
// collector may be nil.
func BuildApp(ctx context.Context, cfg *config.Config, logger *applog.Logger, collector *metrics.Collector) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentStorage).Logger).Create(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	opts := []ledger.Option{
		ledger.WithLogger(logger.WithComponent(applog.ComponentLedger).Logger),
	}
	if res.Publisher != nil {
		opts = append(opts, ledger.WithPublisher(res.Publisher))
	}
	var observer session.Observer
	if collector != nil {
		collector.SetFriends(res.Seeded)
		opts = append(opts, ledger.WithObserver(collector))
		observer = collector
	}

	l := ledger.New(res.Store, ledger.UUIDGenerator{}, opts...)
	return &App{
		Session: session.New(l, observer),
		Metrics: collector,
		backend: res,
	}, nil
}
