package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	fiberadapter "github.com/engramhq/engram/adapters/fiber"
	pgxadapter "github.com/engramhq/engram/adapters/pgx"
	"github.com/engramhq/engram/config"
	"github.com/engramhq/engram/core"
	"github.com/engramhq/engram/logging"
	"github.com/engramhq/engram/pkg/cache"
	"github.com/engramhq/engram/pkg/crypto"
	"github.com/engramhq/engram/services"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Hour
)

func main() {
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := run(log); err != nil {
		log.Error(context.Background(), "fatal", "err", err)
		os.Exit(1)
	}
}

func run(log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := pgxadapter.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}

	tokens, err := crypto.NewTokenKeeper(cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("token keeper: %w", err)
	}

	storage := pgxadapter.New(pool)
	sessionCache := cache.NewInMemoryCache(core.CacheConfig{
		TTL:     5 * time.Minute,
		MaxSize: 500,
	})

	sessions := services.NewSessionManager(
		services.SessionConfig{MaxAge: cfg.SessionMaxAge},
		storage,
		sessionCache,
		tokens,
	)
	auth := services.NewAuthService(storage, crypto.NewArgon2(), sessions)
	blocks := services.NewBlockService(storage)

	app := fiber.New()
	app.Use(logger.New())

	adapter := fiberadapter.New(cfg.OriginPolicy(), auth, blocks, sessions, cfg.SessionMaxAge, log)
	adapter.RegisterRoutes(app)

	go sweepExpiredSessions(ctx, storage, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()
	log.Info(ctx, "listening", "port", cfg.Port)

	select {
	case err := <-errCh:
		pool.Close()
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	// Stop accepting, drain in-flight requests, then release the pool.
	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn(context.Background(), "shutdown incomplete", "err", err)
	}
	pool.Close()

	return nil
}

// sweepExpiredSessions periodically clears sessions past their expiry. The
// read path already refuses expired sessions; this just keeps the table from
// growing without bound.
func sweepExpiredSessions(ctx context.Context, storage core.SessionStorage, log logging.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := storage.DeleteExpiredSessions(ctx, time.Now())
			if err != nil {
				log.Warn(ctx, "expired session sweep failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info(ctx, "swept expired sessions", "count", n)
			}
		}
	}
}
