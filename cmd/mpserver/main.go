// Command mpserver serves the market-intelligence dashboard API over the
// enriched venue dataset.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/Jeepster74/MPone/internal/api"
	"github.com/Jeepster74/MPone/internal/config"
	"github.com/Jeepster74/MPone/internal/observability"
	"github.com/Jeepster74/MPone/internal/store"
)

func main() {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if len(cfg.AuthUsers) == 0 {
		logger.Warn("AUTH_USERS is empty, nobody can log in")
	}

	sessions := api.NewSessionManager(cfg.AuthUsers, cfg.SessionTTL, clockwork.NewRealClock())
	srv := api.NewServer(cfg.HTTPAddr, cfg.StorePath,
		store.NewShapeCache(cfg.ShapesPath),
		store.NewWishlist(cfg.WishlistPath),
		sessions, cfg.CORSOrigins, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
