package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/msomdec/gigbook/internal/config"
	"github.com/msomdec/gigbook/internal/repository/sqlite"
	"github.com/msomdec/gigbook/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.Level()}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("gigbook failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := sqlite.New(cfg.DatabasePath,
		sqlite.WithLogger(logger),
		sqlite.WithMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Reset {
		if err := db.DropTables(ctx); err != nil {
			return err
		}
		slog.Info("tables dropped")
	}

	if err := db.CreateTables(ctx); err != nil {
		return err
	}
	slog.Info("schema ready", "path", cfg.DatabasePath)

	if cfg.Seed {
		if err := seed.Run(ctx, db.Bands(), db.Venues()); err != nil {
			return err
		}
	}

	top, err := db.Bands().MostPerformances(ctx)
	if err != nil {
		return err
	}
	for _, band := range top {
		slog.Info("most performances", "band", band.Name, "hometown", band.Hometown)
	}
	return nil
}
