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

	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/logging"
	"github.com/jafarshop/storefront/internal/money"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/repository/postgres"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/shopify"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter, err := money.NewFormatter(cfg.Storefront.Locale, cfg.Storefront.CurrencyPrefix)
	if err != nil {
		return err
	}

	// Cart journal is optional
	var repos *repository.Repositories
	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repos = postgres.NewRepositories(db, logger)
		logger.Info("Cart journal enabled", zap.String("db_host", cfg.Database.Host))
	} else {
		logger.Info("Cart journal disabled, mutations are only logged")
	}

	client := shopify.NewClient(cfg.CartSource, logger)
	sessions := service.NewSessionRegistry(client, service.NewJournal(repos, logger), formatter, cfg.Session.IdleTTL, cfg.Session.MaxSessions, logger)
	go sessions.Run(ctx, sweepInterval)

	router := api.NewRouter(cfg, api.Dependencies{
		Sessions: sessions,
		Contact:  service.NewContactService(logger),
		Repos:    repos,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Storefront starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("cart_source", client.SourceURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
