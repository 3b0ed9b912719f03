// Package plaintext extracts text from UTF-8 text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/autofiler/autofiler/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, domain.Extraction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", domain.Extraction{Success: false, FailureReason: "unreadable"}, fmt.Errorf("read source file: %w", err)
	}
	if len(raw) == 0 {
		return "", domain.Extraction{Success: false, FailureReason: "zero-byte file"}, nil
	}
	if !utf8.Valid(raw) {
		return "", domain.Extraction{Success: false, FailureReason: "binary content"}, nil
	}
	return strings.TrimSpace(string(raw)), domain.Extraction{Success: true, Pages: 1}, nil
}
