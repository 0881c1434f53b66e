// Package store opens the configured expense store.
package store

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
	"github.com/SscSPs/roomie_ledger/internal/platform/config"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
	"github.com/SscSPs/roomie_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/roomie_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/roomie_ledger/pkg/database"
)

// Open connects the store selected by cfg.StoreDriver and returns its
// repositories together with a close function. For Postgres it runs the
// migrations and starts relaying change notifications into hub.
func Open(ctx context.Context, cfg *config.Config, hub *fanout.Hub, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}

		logger.Info("Running database migrations...")
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}

		listener := pgsql.NewChangeListener(dbPool, hub)
		listenCtx, cancel := context.WithCancel(middleware.WithLogger(ctx, logger.With(slog.String("component", "change_listener"))))
		go listener.Run(listenCtx)

		return pgsql.NewRepositoryProvider(dbPool, hub), func() {
			cancel()
			dbPool.Close()
		}, nil

	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("SQLite store opened", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db, hub), func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close store", slog.String("error", err.Error()))
			}
		}, nil
	}
}
