package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/config"
	"github.com/Veraticus/fintrack/internal/engine"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig resolves the configuration initConfig already validated.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens and migrates the configured database. The caller closes it.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// withOwnerStore resolves the owner, opens the store, and runs fn.
func withOwnerStore(ctx context.Context, fn func(store *storage.SQLiteStorage, ownerID string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ownerID, err := cfg.RequireOwner()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(store, ownerID)
}

func newEngine(store *storage.SQLiteStorage) *engine.Engine {
	return newEngineFor(store)
}

func newEngineFor(store service.TransactionReader) *engine.Engine {
	return engine.New(store, slog.Default())
}
