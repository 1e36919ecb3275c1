package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"babylog/internal/config"
	"babylog/internal/httpserver"
	"babylog/internal/logging"
	"babylog/internal/metrics"
	"babylog/internal/store"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m := metrics.New()
	logger, err := logging.New(cfg.Environment, cfg.LogLevel, zap.Hooks(m.LogEntry))
	if err != nil {
		return err
	}
	defer logger.Sync()

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()

	router, err := httpserver.NewRouter(cfg.Environment, httpserver.Dependencies{
		Repository:      repo,
		Logger:          logger,
		Metrics:         m,
		Location:        cfg.Location,
		SummaryCacheTTL: cfg.SummaryCacheTTL,
		MaxWindow:       cfg.MaxWindow,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Timezone),
		zap.Duration("summary_cache_ttl", cfg.SummaryCacheTTL),
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("server stopped")
			return nil
		}
		return err
	case <-signalCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-serverErr
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func openRepository(cfg config.Config, logger *zap.Logger) (store.Repository, error) {
	if cfg.DBPath == "" {
		logger.Info("using in-memory event store")
		return store.NewMemoryStore(), nil
	}
	repo, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open event store %s: %w", cfg.DBPath, err)
	}
	logger.Info("using sqlite event store", zap.String("path", cfg.DBPath))
	return repo, nil
}
