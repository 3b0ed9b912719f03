package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autofiler/autofiler/internal/config"
	"github.com/autofiler/autofiler/internal/infrastructure/queue/nats"
	watchfs "github.com/autofiler/autofiler/internal/infrastructure/watcher/fsnotify"
	"github.com/autofiler/autofiler/internal/observability/logging"
	"github.com/autofiler/autofiler/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("watcher", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		log.Fatalf("init intake queue: %v", err)
	}
	defer queue.Close()

	pm := metrics.NewPipelineMetrics("watcher")
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: pm.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	w, err := watchfs.New(watchfs.Config{
		Dir:         cfg.IntakePath,
		RatePerSec:  cfg.IntakeRatePerSec,
		Burst:       cfg.IntakeBurst,
		DedupWindow: time.Duration(cfg.DedupWindowSec) * time.Second,
		OnReject: func(path, reason string) {
			pm.GuardReject(reason)
		},
	}, queue, logger)
	if err != nil {
		log.Fatalf("init watcher: %v", err)
	}

	logger.Info("watching_intake", "dir", cfg.IntakePath, "subject", cfg.NATSSubject)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("watcher error: %v", err)
	}
}
