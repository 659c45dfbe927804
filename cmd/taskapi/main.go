package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/ent0n29/taskapi/internal/config"
	"github.com/ent0n29/taskapi/internal/httpapi"
	"github.com/ent0n29/taskapi/internal/logging"
	"github.com/ent0n29/taskapi/internal/observability"
	"github.com/ent0n29/taskapi/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error", "err", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("logger init failed", "err", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	var seed []tasks.Task
	if cfg.SeedTasks {
		seed = tasks.SeedTasks()
	}
	store, storeMode, err := tasks.NewStore(context.Background(), cfg.DatabaseURL, seed)
	if err != nil {
		logger.Fatal("task store init failed", "err", err)
	}
	defer store.Close()
	logger.Info("task store ready", "mode", storeMode, "seeded", len(seed))

	api := httpapi.New(cfg, store, storeMode, metrics, logger)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		logger.Info("server listening", "addr", "http://"+cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		_ = httpServer.Close()
	}

	logger.Info("shutdown complete")
}
