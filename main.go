// Command foodie is the Foodie API server: recipes, meal planning, pantry,
// shopping lists and recipe contributions, with realtime updates over
// WebSocket.
//
// main only wires things together; every dependency is built here and
// passed down explicitly.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foodie-app/foodie/config"
	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/pkg/crypto"
	"github.com/foodie-app/foodie/pkg/i18n"
	"github.com/foodie-app/foodie/pkg/logger"
	"github.com/foodie-app/foodie/services"
	"github.com/foodie-app/foodie/ws"
)

const (
	shutdownTimeout   = 10 * time.Second
	sessionPurgeEvery = time.Hour
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "foodie: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)
	log := zl.Named("main")

	encryptionKey, err := crypto.DeriveKey(cfg.Encryption.Key)
	if err != nil {
		return fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	locales, err := i18n.Locales()
	if err != nil {
		return err
	}
	if err := i18n.Load(locales); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := initRepositories(db)
	hub := ws.NewHub()
	svcs, limiters, cleanup := initServices(repos, hub, cfg, encryptionKey)
	defer cleanup()

	h := initHandlers(svcs, limiters, db, hub, cfg)
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           initRoutes(h, svcs.Auth, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Contributions make several GitHub round trips.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		purgeSessions(gctx, svcs.Auth, sessionPurgeEvery)
		return nil
	})

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		// Close WebSocket connections first; Shutdown does not wait for
		// hijacked connections.
		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// purgeSessions deletes expired refresh sessions every interval until ctx
// is done.
func purgeSessions(ctx context.Context, auth services.AuthService, every time.Duration) {
	log := zap.L().Named("sessions")
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Warn("failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
