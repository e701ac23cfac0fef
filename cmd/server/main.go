package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arcadehub/leaderboard-api/internal/cache"
	"github.com/arcadehub/leaderboard-api/internal/config"
	"github.com/arcadehub/leaderboard-api/internal/handlers"
	"github.com/arcadehub/leaderboard-api/internal/logic"
	"github.com/arcadehub/leaderboard-api/internal/store"
	"github.com/arcadehub/leaderboard-api/internal/store/local"
	"github.com/arcadehub/leaderboard-api/internal/store/postgres"
	"github.com/arcadehub/leaderboard-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage backend
	var st store.Store
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.PostgresURL, logger)
		if err != nil {
			sugar.Fatalw("failed to connect to postgres", "error", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			sugar.Fatalw("failed to run migrations", "error", err)
		}
		st = pg
	case config.DriverLocal:
		ls, err := local.Open(cfg.LocalDBPath, logger)
		if err != nil {
			sugar.Fatalw("failed to open local store", "error", err, "path", cfg.LocalDBPath)
		}
		st = ls
	}
	defer st.Close()
	sugar.Infow("store ready", "driver", cfg.StoreDriver)

	// Optional Redis cache + refresher
	var lbCache logic.LeaderboardCache
	var refresher *worker.Refresher
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL, cfg.CacheTTL, logger)
		if err != nil {
			sugar.Fatalw("failed to connect to redis", "error", err)
		}
		defer c.Close()
		lbCache = c
		sugar.Info("leaderboard cache ready")

		if cfg.RefreshEnabled {
			refresher = worker.NewRefresher(worker.Config{
				Interval: cfg.RefreshInterval,
				Store:    st,
				Cache:    lbCache,
				Logger:   logger,
			})
			refresher.Start(ctx)
		}
	}

	// Services
	identity := logic.NewIdentityService(st, logger)
	scores := logic.NewScoreService(st, lbCache, logger)
	stats := logic.NewStatsService(st, lbCache, logger)

	// Seed the default admin account. Failure must not abort startup.
	if err := identity.EnsureAdmin(ctx); err != nil {
		sugar.Warnw("admin bootstrap failed, continuing", "error", err)
	}

	h := handlers.New(handlers.Config{
		Store:          st,
		Cache:          lbCache,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Identity:       identity,
		Scores:         scores,
		Stats:          stats,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sugar.Infow("starting HTTP server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("HTTP server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if refresher != nil {
		refresher.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("failed to shutdown server", "error", err)
	}

	sugar.Info("server stopped")
}
