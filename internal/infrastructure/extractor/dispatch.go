// Package extractor selects the text extractor for a file by its
// container extension and wraps the call in the resilience executor.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/ports"
	"github.com/autofiler/autofiler/internal/infrastructure/resilience"
)

type Dispatcher struct {
	byExt    map[string]ports.TextExtractor
	fallback ports.TextExtractor
	executor *resilience.Executor
}

func NewDispatcher(fallback ports.TextExtractor, executor *resilience.Executor) *Dispatcher {
	return &Dispatcher{
		byExt:    make(map[string]ports.TextExtractor),
		fallback: fallback,
		executor: executor,
	}
}

// Register maps a dot-prefixed extension to an extractor.
func (d *Dispatcher) Register(ext string, e ports.TextExtractor) *Dispatcher {
	d.byExt[strings.ToLower(ext)] = e
	return d
}

func (d *Dispatcher) Extract(ctx context.Context, path string) (string, domain.Extraction, error) {
	target := d.byExt[strings.ToLower(filepath.Ext(path))]
	if target == nil {
		target = d.fallback
	}
	if target == nil {
		return "", domain.Extraction{Success: false, FailureReason: "unsupported format"}, nil
	}

	var (
		text string
		meta domain.Extraction
	)
	call := func(callCtx context.Context) error {
		var err error
		text, meta, err = target.Extract(callCtx, path)
		return err
	}
	var err error
	if d.executor != nil {
		err = d.executor.Execute(ctx, "extractor.extract", call, classifyExtractError)
	} else {
		err = call(ctx)
	}
	return text, meta, err
}

// classifyExtractError retries infrastructure faults (a file still being
// flushed by the producer) but never extraction outcomes, which are
// carried in the Extraction struct rather than the error.
func classifyExtractError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
