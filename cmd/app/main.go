package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lunarforge/reward-engine/internal/catalog"
	"github.com/lunarforge/reward-engine/internal/config"
	"github.com/lunarforge/reward-engine/internal/database"
	"github.com/lunarforge/reward-engine/internal/database/migrations"
	"github.com/lunarforge/reward-engine/internal/database/postgres"
	"github.com/lunarforge/reward-engine/internal/gacha"
	"github.com/lunarforge/reward-engine/internal/inventory"
	"github.com/lunarforge/reward-engine/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	if cfg.Environment == "prod" || cfg.Environment == "production" {
		warnings, err := config.ValidateEnvWithWarnings()
		if err != nil {
			slog.Error("Environment validation failed", "error", err)
			os.Exit(1)
		}
		for _, w := range warnings {
			slog.Warn(w)
		}
	}

	if err := run(cfg); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Run migrations over database/sql before opening the pool
	if err := runMigrations(cfg); err != nil {
		return err
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	slog.Info("Reward catalog loaded", "path", cfg.CatalogPath, "pools", len(cat.PoolKeys()))

	store := postgres.NewStore(dbPool, cfg.DefaultMaxCapacity)
	snapshots := inventory.NewSnapshotCache(store, inventory.DefaultSnapshotCacheSize, cfg.SnapshotCacheTTL)
	gachaService := gacha.NewService(cat, store, snapshots, gacha.DefaultRNG())

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, gachaService, dbPool)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}

// runMigrations applies embedded goose migrations.
func runMigrations(cfg *config.Config) error {
	db, err := sql.Open("pgx", cfg.GetDBConnString())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return err
	}
	slog.Info("Database migrations applied")
	return nil
}
