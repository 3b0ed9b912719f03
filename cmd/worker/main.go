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

	"github.com/autofiler/autofiler/internal/bootstrap"
	"github.com/autofiler/autofiler/internal/config"
	"github.com/autofiler/autofiler/internal/observability/logging"
	"github.com/autofiler/autofiler/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: app.Metrics.Handler(),
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

	pool := worker.NewPool(cfg.Workers, func(handlerCtx context.Context, path string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
		defer cancel()

		started := time.Now()
		app.Metrics.StartCandidate()
		res, err := app.ProcessUC.OnNewFile(processCtx, path)

		outcome := "error"
		switch {
		case err != nil:
			logger.Error("process_failed", "path", path, "error", err)
		case res.Skipped:
			outcome = "duplicate"
			app.Metrics.DuplicateSkip()
		case res.Decision != nil:
			outcome = string(res.Decision.Kind)
		}
		app.Metrics.FinishCandidate(outcome, time.Since(started))
		app.Metrics.SetReviewQueueDepth(app.Review.Depth())
		return err
	})
	pool.Start(ctx)
	defer pool.Close()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject, "workers", cfg.Workers)
	err = app.Queue.SubscribeFileDiscovered(ctx, func(handlerCtx context.Context, path string) error {
		return pool.Submit(handlerCtx, path)
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
