package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autofiler/autofiler/internal/config"
	"github.com/autofiler/autofiler/internal/core/classify"
	"github.com/autofiler/autofiler/internal/core/ports"
	"github.com/autofiler/autofiler/internal/core/review"
	"github.com/autofiler/autofiler/internal/core/route"
	"github.com/autofiler/autofiler/internal/core/usecase"
	"github.com/autofiler/autofiler/internal/infrastructure/export/excel"
	"github.com/autofiler/autofiler/internal/infrastructure/extractor"
	"github.com/autofiler/autofiler/internal/infrastructure/extractor/pdftext"
	"github.com/autofiler/autofiler/internal/infrastructure/extractor/plaintext"
	"github.com/autofiler/autofiler/internal/infrastructure/filer/localfs"
	"github.com/autofiler/autofiler/internal/infrastructure/queue/nats"
	"github.com/autofiler/autofiler/internal/infrastructure/registry/jsonfile"
	"github.com/autofiler/autofiler/internal/infrastructure/repository/postgres"
	"github.com/autofiler/autofiler/internal/infrastructure/resilience"
	reviewstore "github.com/autofiler/autofiler/internal/infrastructure/reviewstore/jsonfile"
	"github.com/autofiler/autofiler/internal/observability/metrics"
)

// App holds the wired object graph shared by the worker and the CLI.
// The watcher process wires only the intake queue and skips New.
type App struct {
	Config config.Config
	Rules  config.Rules

	Queue    ports.IntakeQueue
	Registry ports.TypeRegistry
	Ledger   ports.DecisionLedger
	Review   *review.Queue

	ProcessUC ports.FileProcessor
	ReviewUC  ports.ReviewService
	Reporter  *excel.Reporter
	Metrics   *metrics.PipelineMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classification rules: %w", err)
	}

	registry, err := jsonfile.Open(cfg.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("open type registry: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ledger := postgres.NewDecisionRepository(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	store, err := reviewstore.New(cfg.ReviewStatePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init review state store: %w", err)
	}
	reviewQueue, err := review.NewQueue(ctx, store)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore review queue: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init intake queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	extract := extractor.NewDispatcher(plaintext.New(), executor).
		Register(".pdf", pdftext.New())

	vault, err := localfs.NewVault(cfg.VaultPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init vault: %w", err)
	}
	sidecars, err := localfs.NewSidecarWriter(cfg.SidecarPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init sidecar writer: %w", err)
	}

	classifier := classify.New(rules.Weights(), rules.CompileReferenceChecks())
	router := route.New(cfg.DestinationRoot, rules.ConfidenceThreshold, rules.MinSignals, rules.Naming)

	processUC := usecase.NewProcessFileUseCase(
		extract, registry, classifier, router, reviewQueue,
		ledger, localfs.NewFiler(), vault, sidecars, log,
	)
	reviewUC := usecase.NewReviewUseCase(reviewQueue, registry, router, ledger, processUC, log)

	return &App{
		Config:   cfg,
		Rules:    rules,
		Queue:    queue,
		Registry: registry,
		Ledger:   ledger,
		Review:   reviewQueue,

		ProcessUC: processUC,
		ReviewUC:  reviewUC,
		Reporter:  excel.NewReporter(ledger),
		Metrics:   metrics.NewPipelineMetrics("worker"),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
