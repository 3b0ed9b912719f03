package ports

import (
	"context"

	"github.com/autofiler/autofiler/internal/core/domain"
)

// FileProcessor is the inbound contract for the classification pipeline.
// Invoked at-least-once per discovered file; repeat notifications for an
// already-decided path are reported as skipped.
type FileProcessor interface {
	OnNewFile(ctx context.Context, path string) (ProcessResult, error)
}

// ProcessResult summarizes one pipeline run for observability.
type ProcessResult struct {
	Skipped  bool
	Decision *domain.RoutingDecision
	Filing   *domain.FilingResult
}

// ReviewService is the contract consumed by the review UI. The UI
// performs no classification logic itself.
type ReviewService interface {
	NextPendingItem(ctx context.Context) (*domain.ReviewItem, error)
	Claim(ctx context.Context, itemID string) (*domain.ReviewItem, error)
	// ResolveAssign files the claimed item under an existing type,
	// bypassing the confidence threshold.
	ResolveAssign(ctx context.Context, itemID, typeID string) (*domain.FilingResult, error)
	// ResolveCreate creates the type via the registry first, then files
	// the item under it.
	ResolveCreate(ctx context.Context, itemID string, def domain.DocumentType) (*domain.FilingResult, error)
	Defer(ctx context.Context, itemID string) error
	// Release returns an InProgress item to Pending without resolving
	// it; used on cancellation so claims are never lost.
	Release(ctx context.Context, itemID string) error
	Summary(ctx context.Context) (map[domain.ReviewStatus]int, error)
}
