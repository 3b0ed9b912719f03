package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autofiler/autofiler/internal/core/classify"
	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/ports"
	"github.com/autofiler/autofiler/internal/core/review"
	"github.com/autofiler/autofiler/internal/core/route"
)

// ProcessFileUseCase runs the full pipeline for one discovered file:
// extract -> classify -> score -> route, then either file or enqueue for
// review. It is safe to invoke concurrently from a worker pool: each run
// operates on its own registry snapshot and the only shared state is the
// decision ledger and the review queue.
type ProcessFileUseCase struct {
	extractor ports.TextExtractor
	registry  ports.TypeRegistry
	classify  *classify.Classifier
	router    *route.Router
	queue     *review.Queue
	ledger    ports.DecisionLedger
	filer     ports.Filer
	archiver  ports.Archiver
	sidecars  ports.SidecarWriter
	log       *slog.Logger
	now       func() time.Time
}

func NewProcessFileUseCase(
	extractor ports.TextExtractor,
	registry ports.TypeRegistry,
	classifier *classify.Classifier,
	router *route.Router,
	queue *review.Queue,
	ledger ports.DecisionLedger,
	filer ports.Filer,
	archiver ports.Archiver,
	sidecars ports.SidecarWriter,
	log *slog.Logger,
) *ProcessFileUseCase {
	return &ProcessFileUseCase{
		extractor: extractor,
		registry:  registry,
		classify:  classifier,
		router:    router,
		queue:     queue,
		ledger:    ledger,
		filer:     filer,
		archiver:  archiver,
		sidecars:  sidecars,
		log:       log,
		now:       time.Now,
	}
}

// OnNewFile classifies and routes one file. Duplicate notifications for
// an already-decided path are a no-op reported as skipped.
func (uc *ProcessFileUseCase) OnNewFile(ctx context.Context, path string) (ports.ProcessResult, error) {
	if prior, err := uc.ledger.FindByPath(ctx, path); err == nil {
		uc.log.Info("skip already-decided path", "path", path, "decision", prior.Decision)
		return ports.ProcessResult{Skipped: true}, nil
	} else if !domain.IsKind(err, domain.ErrNotFound) {
		return ports.ProcessResult{}, fmt.Errorf("ledger lookup: %w", err)
	}

	cand := uc.buildCandidate(ctx, path)

	snapshot := uc.registry.Snapshot()
	matches := uc.classify.Classify(cand, snapshot)

	decision, err := uc.router.Route(cand, matches)
	if err != nil {
		return ports.ProcessResult{}, fmt.Errorf("route candidate: %w", err)
	}

	result := ports.ProcessResult{Decision: &decision}
	switch decision.Kind {
	case domain.DecisionReview:
		if err := uc.recordDecision(ctx, cand, decision); err != nil {
			if domain.IsKind(err, domain.ErrConflict) {
				// Lost the race against a duplicate notification.
				uc.log.Info("decision already recorded", "path", path)
				return ports.ProcessResult{Skipped: true}, nil
			}
			return ports.ProcessResult{}, err
		}
		item, err := uc.queue.Enqueue(ctx, *decision.Review)
		if err != nil {
			return result, fmt.Errorf("enqueue review item: %w", err)
		}
		uc.log.Info("routed to review",
			"path", path, "item_id", item.ID, "reason", decision.Review.Reason)
	case domain.DecisionAutoFile:
		// File first, record after. A filer or archiver failure must leave
		// the path undecided in the ledger so redelivery retries it instead
		// of skipping a stranded document.
		filing, err := uc.executeFiling(ctx, cand, decision, nil)
		if err != nil {
			return result, err
		}
		result.Filing = filing
		if err := uc.recordDecision(ctx, cand, decision); err != nil {
			if domain.IsKind(err, domain.ErrConflict) {
				uc.log.Info("decision already recorded", "path", path)
			} else {
				return result, fmt.Errorf("decision record failed after filing: %w", err)
			}
		}
		uc.log.Info("auto-filed",
			"path", path,
			"type", decision.AutoFile.TypeID,
			"score", decision.AutoFile.Score,
			"destination", filing.Destination)
	}
	return result, nil
}

func (uc *ProcessFileUseCase) buildCandidate(ctx context.Context, path string) domain.Candidate {
	cand := newCandidate(path, uc.now())

	text, extraction, err := uc.extractor.Extract(ctx, path)
	if err != nil {
		// Infrastructure faults degrade to an extraction failure so the
		// candidate still reaches the router (and typically review).
		extraction = domain.Extraction{Success: false, FailureReason: err.Error()}
		text = ""
		uc.log.Warn("extraction error", "path", path, "error", err)
	}
	cand.Text = text
	cand.Extraction = extraction
	return cand
}

func (uc *ProcessFileUseCase) recordDecision(ctx context.Context, cand domain.Candidate, decision domain.RoutingDecision) error {
	rec := &domain.DecisionRecord{
		Path:      cand.Path,
		SHA256:    cand.SHA256,
		Decision:  decision.Kind,
		DecidedAt: cand.DiscoveredAt,
	}
	switch decision.Kind {
	case domain.DecisionAutoFile:
		rec.TypeID = decision.AutoFile.TypeID
		rec.Score = decision.AutoFile.Score
		rec.Destination = decision.AutoFile.DestinationPath
	case domain.DecisionReview:
		rec.Reason = decision.Review.Reason
		if decision.Review.BestMatch != nil {
			rec.TypeID = decision.Review.BestMatch.TypeID
			rec.Score = decision.Review.BestMatch.Score
		}
	}
	if err := uc.ledger.Record(ctx, rec); err != nil {
		if domain.IsKind(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// executeFiling archives the original, moves the file, and writes the
// sidecar. reviewInfo is non-nil on the manual resolution path.
func (uc *ProcessFileUseCase) executeFiling(
	ctx context.Context,
	cand domain.Candidate,
	decision domain.RoutingDecision,
	reviewInfo map[string]string,
) (*domain.FilingResult, error) {
	order := decision.AutoFile

	vaultPath, err := uc.archiver.Archive(ctx, cand.Path, order.Type.Code)
	if err != nil {
		return nil, fmt.Errorf("archive to vault: %w", err)
	}

	filing, err := uc.filer.File(ctx, cand.Path, order.DestinationPath, order.ResolvedFilename)
	if err != nil {
		return nil, fmt.Errorf("file to destination: %w", err)
	}

	if _, err := uc.sidecars.Write(ctx, domain.Sidecar{
		SchemaVersion: domain.SidecarSchemaVersion,
		ProcessedAt:   uc.now(),
		SourceFile:    cand.Path,
		SourceHash:    cand.SHA256,
		VaultFile:     vaultPath,
		DocumentType:  order.TypeID,
		TypeCode:      order.Type.Code,
		Confidence:    order.Score,
		Decision:      decision.Kind,
		FiledName:     filing.Destination,
		ReviewInfo:    reviewInfo,
		ExtractedText: cand.Text,
	}); err != nil {
		// The document is filed; a sidecar failure is logged, not fatal.
		uc.log.Warn("sidecar write failed", "path", cand.Path, "error", err)
	}
	return &filing, nil
}
