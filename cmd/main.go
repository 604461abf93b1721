// cmd/main.go is the registration intake entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/config"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/database"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/handler"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/notify"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/repository"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// ── 1. Configuration ─────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ── 2. Open the ledger ───────────────────────────────────────────────
	ledger, closeLedger, err := openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	// ── 3. Wire up layers ────────────────────────────────────────────────
	var sender notify.Sender = notify.NewNoopSender()
	if cfg.Mail.ResendAPIKey != "" {
		sender = notify.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	} else {
		slog.Warn("resend_disabled", "reason", "RESEND_API_KEY not set")
	}
	notifier := notify.NewNotifier(sender, notify.Details{
		EventName:    cfg.Mail.EventName,
		Venue:        cfg.Mail.Venue,
		VenueAddress: cfg.Mail.VenueAddress,
		ContactEmail: cfg.Mail.ContactEmail,
		ReplyTo:      cfg.Mail.ReplyTo,
	})

	svc := service.NewRegistrationService(ledger, notifier, cfg.Location())
	if cfg.InitCategories {
		if err := svc.InitializeCategories(ctx); err != nil {
			return fmt.Errorf("initialize categories: %w", err)
		}
	}

	h := handler.NewRegistrationHandler(svc, cfg.ServiceName, cfg.EventStartsAt)

	webDir := cfg.WebDir
	if _, err := os.Stat(webDir); err != nil {
		webDir = ""
	}
	r := handler.NewRouter(h, webDir)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // confirmations are sent inline
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("server_stopped")
	return nil
}

// openLedger connects to the configured store and applies its schema.
func openLedger(ctx context.Context, cfg config.Config) (service.Ledger, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("store_ready", "driver", "sqlite", "path", cfg.SQLitePath)
		return repository.NewSQLiteLedger(db), func() { db.Close() }, nil
	default:
		pool, err := database.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("store_ready", "driver", "postgres", "host", cfg.DB.Host)
		return repository.NewPostgresLedger(pool), pool.Close, nil
	}
}
