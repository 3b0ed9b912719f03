package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a malformed type definition, rejected before
	// anything is persisted.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a duplicate type id or a double-claimed review
	// item; the caller must retry or choose a different target.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a missing type or review item.
	ErrNotFound = errors.New("not found")
	// ErrExtraction marks a failed text extraction. It is carried as
	// absent-signal data, never a pipeline abort.
	ErrExtraction = errors.New("extraction failed")
	// ErrConfiguration marks invalid static configuration (negative
	// weight, unresolvable naming placeholder). Fatal at load time.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrStaleItem marks a review item no longer in the expected state;
	// the caller refreshes and retries.
	ErrStaleItem = errors.New("stale review item")
	// ErrTemporary marks transient infrastructure failures worth
	// retrying.
	ErrTemporary = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
