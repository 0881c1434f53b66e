// Command roomie_seed loads households and members from a seed file into the
// configured store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/roomie_ledger/internal/bootstrap"
	"github.com/SscSPs/roomie_ledger/internal/middleware"
	"github.com/SscSPs/roomie_ledger/internal/platform/config"
	"github.com/SscSPs/roomie_ledger/internal/platform/fanout"
	"github.com/SscSPs/roomie_ledger/internal/platform/store"
)

func main() {
	seedPath := flag.String("file", "seed.yaml", "path to the seed file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	seed, err := bootstrap.LoadSeedFile(*seedPath)
	if err != nil {
		logger.Error("Failed to load seed file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStore, err := store.Open(ctx, cfg, fanout.NewHub(), logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()), slog.String("driver", cfg.StoreDriver))
		os.Exit(1)
	}
	defer closeStore()

	if err := bootstrap.Apply(ctx, repos.MembershipRepo, seed); err != nil {
		logger.Error("Seeding failed", slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}
	logger.Info("Seed complete", slog.Int("households", len(seed.Households)))
}
