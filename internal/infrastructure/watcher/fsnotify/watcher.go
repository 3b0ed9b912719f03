// Package fsnotify watches the intake directory and publishes fit file
// paths to the intake queue. Guard checks, the duplicate-notification
// window, and intake rate limiting all live here; the classification
// core only ever sees paths worth classifying.
package fsnotify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/autofiler/autofiler/internal/core/ports"
)

// settleDelay gives producers a moment to finish writing before the
// guards probe the file.
const settleDelay = time.Second

type Watcher struct {
	dir     string
	queue   ports.IntakeQueue
	limiter *rate.Limiter
	// recent suppresses repeat events for the same path inside the
	// dedup window; entries expire on their own.
	recent *gocache.Cache
	log    *slog.Logger

	onPublish func(path string)
	onReject  func(path, reason string)
}

type Config struct {
	Dir         string
	RatePerSec  float64
	Burst       int
	DedupWindow time.Duration
	OnPublish   func(path string)
	OnReject    func(path, reason string)
}

func New(cfg Config, queue ports.IntakeQueue, log *slog.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("intake dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create intake dir: %w", err)
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 2 * int(cfg.RatePerSec)
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = 5 * time.Second
	}
	return &Watcher{
		dir:       cfg.Dir,
		queue:     queue,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		recent:    gocache.New(cfg.DedupWindow, 2*cfg.DedupWindow),
		log:       log,
		onPublish: cfg.OnPublish,
		onReject:  cfg.OnReject,
	}, nil
}

// Run blocks until ctx is cancelled. Files already present in the
// intake directory at startup are swept first so a restart never
// strands documents.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	if err := w.sweep(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fs watcher error", "error", err)
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("sweep intake dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w.handle(ctx, filepath.Join(w.dir, e.Name()))
	}
	return nil
}

func (w *Watcher) handle(ctx context.Context, path string) {
	path = filepath.Clean(path)

	if _, seen := w.recent.Get(path); seen {
		return
	}
	w.recent.SetDefault(path, struct{}{})

	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	// Let the producer finish writing.
	timer := time.NewTimer(settleDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.C:
	}

	if reason := CheckFile(path); reason != "" {
		w.log.Warn("intake guard rejected file", "path", path, "reason", reason)
		if w.onReject != nil {
			w.onReject(path, reason)
		}
		return
	}

	if err := w.queue.PublishFileDiscovered(ctx, path); err != nil {
		w.log.Error("publish discovered file", "path", path, "error", err)
		return
	}
	w.log.Info("file discovered", "path", path)
	if w.onPublish != nil {
		w.onPublish(path)
	}
}
