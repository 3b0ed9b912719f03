package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/ports"
	"github.com/autofiler/autofiler/internal/core/review"
	"github.com/autofiler/autofiler/internal/core/route"
)

// ReviewUseCase drives the review session protocol: claim an item, then
// assign an existing type, create a new type, or defer. Resolution
// re-invokes the router for the candidate with the threshold bypassed,
// so the filing path is identical to auto-filing.
type ReviewUseCase struct {
	queue    *review.Queue
	registry ports.TypeRegistry
	router   *route.Router
	ledger   ports.DecisionLedger
	filing   *ProcessFileUseCase
	log      *slog.Logger
}

func NewReviewUseCase(
	queue *review.Queue,
	registry ports.TypeRegistry,
	router *route.Router,
	ledger ports.DecisionLedger,
	filing *ProcessFileUseCase,
	log *slog.Logger,
) *ReviewUseCase {
	return &ReviewUseCase{
		queue:    queue,
		registry: registry,
		router:   router,
		ledger:   ledger,
		filing:   filing,
		log:      log,
	}
}

func (uc *ReviewUseCase) NextPendingItem(ctx context.Context) (*domain.ReviewItem, error) {
	item, err := uc.queue.NextPending(ctx)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.WrapError(domain.ErrNotFound, "next pending review item",
			fmt.Errorf("queue is empty"))
	}
	return item, nil
}

func (uc *ReviewUseCase) Claim(ctx context.Context, itemID string) (*domain.ReviewItem, error) {
	return uc.queue.Claim(ctx, itemID)
}

func (uc *ReviewUseCase) Defer(ctx context.Context, itemID string) error {
	return uc.queue.Defer(ctx, itemID)
}

func (uc *ReviewUseCase) Release(ctx context.Context, itemID string) error {
	return uc.queue.Release(ctx, itemID)
}

func (uc *ReviewUseCase) Summary(_ context.Context) (map[domain.ReviewStatus]int, error) {
	return uc.queue.Summary(), nil
}

// ResolveAssign files the claimed item under an existing type at score
// 1.0, bypassing the confidence threshold.
func (uc *ReviewUseCase) ResolveAssign(ctx context.Context, itemID, typeID string) (*domain.FilingResult, error) {
	return uc.resolve(ctx, itemID, typeID, false)
}

// ResolveCreate creates a new type through the registry, then files the
// item under it. The new type is visible to every subsequent
// classification without restart.
func (uc *ReviewUseCase) ResolveCreate(ctx context.Context, itemID string, def domain.DocumentType) (*domain.FilingResult, error) {
	created, err := uc.registry.Create(ctx, def)
	if err != nil {
		return nil, err
	}
	uc.log.Info("type created during review", "type", created.ID, "code", created.Code)
	return uc.resolve(ctx, itemID, created.ID, true)
}

func (uc *ReviewUseCase) resolve(ctx context.Context, itemID, typeID string, newType bool) (*domain.FilingResult, error) {
	item, err := uc.queue.Get(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ReviewInProgress {
		return nil, domain.WrapError(domain.ErrStaleItem, "resolve review item",
			fmt.Errorf("item %s is %s", itemID, item.Status))
	}

	typ, err := uc.registry.Get(typeID)
	if err != nil {
		return nil, err
	}

	decision, err := uc.router.RouteResolved(item.Candidate, typ)
	if err != nil {
		return nil, fmt.Errorf("route resolved candidate: %w", err)
	}

	reviewInfo := map[string]string{"item_id": item.ID, "reason": item.Reason}
	if newType {
		reviewInfo["new_type"] = typ.ID
	}
	filing, err := uc.filing.executeFiling(ctx, item.Candidate, decision, reviewInfo)
	if err != nil {
		// The claim stays InProgress; the operator can retry or release.
		return nil, err
	}

	if err := uc.ledger.MarkResolved(ctx, item.Candidate.Path, typ.ID, filing.Destination); err != nil {
		uc.log.Warn("ledger resolution update failed", "path", item.Candidate.Path, "error", err)
	}
	if err := uc.queue.Resolve(ctx, itemID, typ.ID, newType); err != nil {
		return filing, err
	}
	uc.log.Info("review item resolved",
		"item_id", itemID, "type", typ.ID, "destination", filing.Destination, "new_type", newType)
	return filing, nil
}
