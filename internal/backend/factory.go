// Package backend assembles the friend store, its seed and the optional
// event publisher from configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eatsplit/internal/amqp"
	"eatsplit/internal/config"
	"eatsplit/internal/ledger"
	"eatsplit/internal/storage"
	"eatsplit/internal/storage/memory"
	"eatsplit/internal/storage/sqlite"
)

// Type names a FriendStore implementation.
type Type string

const (
	MemoryBackend Type = config.BackendMemory
	SQLiteBackend Type = config.BackendSQLite
)

func (t Type) IsValid() bool {
	return t == MemoryBackend || t == SQLiteBackend
}

// Config holds what the factory needs from the application config.
type Config struct {
	Type         Type
	SeedFile     string
	AMQPURL      string
	AMQPExchange string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         t,
		SeedFile:     appConfig.SeedFile,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
	}, nil
}

// Result is an assembled backend. Publisher is nil when events are off.
type Result struct {
	Store     storage.FriendStore
	Publisher ledger.Publisher
	Seeded    int

	cleanup []func() error
}

// Close releases the publisher and the store.
func (r *Result) Close() error {
	var errs []error
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		if err := r.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds and seeds the store. An unreachable broker is logged and
// the backend runs without events.
func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	friends, err := storage.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	var store storage.FriendStore
	switch cfg.Type {
	case SQLiteBackend:
		s, err := sqlite.New("")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		store = s
	default:
		store = memory.New()
	}
	res := &Result{Store: store, cleanup: []func() error{store.Close}}

	if err := storage.Seed(ctx, store, friends); err != nil {
		res.Close()
		return nil, err
	}
	res.Seeded = len(friends)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, f.logger.With("component", "amqp"))
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			res.Publisher = client
			res.cleanup = append(res.cleanup, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP publisher", "exchange", cfg.AMQPExchange)
		}
	}

	f.logger.InfoContext(ctx, "Initialized friend store",
		"backend", cfg.Type,
		"seeded", res.Seeded,
		"events", res.Publisher != nil)
	return res, nil
}
