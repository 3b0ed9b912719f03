package ports

import (
	"context"

	"github.com/autofiler/autofiler/internal/core/domain"
)

// TypeRegistry holds the set of known document type definitions. Reads
// go through immutable snapshots; writes are serialized and durable.
type TypeRegistry interface {
	// Snapshot returns the current consistent view of all types. An
	// in-flight classification never observes a partially written type.
	Snapshot() domain.Snapshot
	// Create validates and durably persists a new type, making it part
	// of every subsequent snapshot. A duplicate id fails with
	// domain.ErrConflict, malformed fields with domain.ErrValidation.
	Create(ctx context.Context, def domain.DocumentType) (*domain.DocumentType, error)
	// Get returns the type by id or domain.ErrNotFound.
	Get(id string) (*domain.DocumentType, error)
}

// TextExtractor converts a file into normalized text plus extraction
// metadata. Failures (locked, zero-byte, password-protected) surface in
// the Extraction struct, not as an error; errors are reserved for
// infrastructure faults.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, domain.Extraction, error)
}

// Filer physically moves a file to its resolved destination. Collision
// with an existing destination name is disambiguated by the filer, never
// by the router.
type Filer interface {
	File(ctx context.Context, sourcePath, destinationDir, filename string) (domain.FilingResult, error)
}

// Archiver copies the original file into the vault under a code-prefixed
// name before it is filed.
type Archiver interface {
	Archive(ctx context.Context, sourcePath, typeCode string) (string, error)
}

// SidecarWriter persists the JSON metadata record next to a filed
// document.
type SidecarWriter interface {
	Write(ctx context.Context, sc domain.Sidecar) (string, error)
}

// IntakeQueue carries discovered file paths from the watcher to the
// classification workers.
type IntakeQueue interface {
	PublishFileDiscovered(ctx context.Context, path string) error
	SubscribeFileDiscovered(ctx context.Context, handler func(context.Context, string) error) error
}

// DecisionLedger records every routing decision and makes duplicate
// intake notifications idempotent.
type DecisionLedger interface {
	// Record persists the decision for a candidate. Recording the same
	// path twice fails with domain.ErrConflict.
	Record(ctx context.Context, rec *domain.DecisionRecord) error
	// FindByPath returns the existing decision for a path, or
	// domain.ErrNotFound when the path has never been decided.
	FindByPath(ctx context.Context, path string) (*domain.DecisionRecord, error)
	// MarkResolved updates a review decision with its manual resolution.
	MarkResolved(ctx context.Context, path, typeID, destination string) error
	// List returns decision records, newest first, up to limit (0 = all).
	List(ctx context.Context, limit int) ([]domain.DecisionRecord, error)
}

// ReviewStore persists review queue state across restarts.
type ReviewStore interface {
	Load(ctx context.Context) ([]*domain.ReviewItem, error)
	Save(ctx context.Context, items []*domain.ReviewItem) error
}
