package localfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autofiler/autofiler/internal/core/domain"
)

// SidecarWriter persists the JSON metadata record for each filed
// document, named after the filed document's stem.
type SidecarWriter struct {
	dir string
}

func NewSidecarWriter(dir string) (*SidecarWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sidecar dir: %w", err)
	}
	return &SidecarWriter{dir: dir}, nil
}

func (w *SidecarWriter) Write(_ context.Context, sc domain.Sidecar) (string, error) {
	base := filepath.Base(sc.FiledName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	path := filepath.Join(w.dir, stem+".json")

	raw, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sidecar: %w", err)
	}
	raw = append(raw, '\n')

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write sidecar: %w", err)
	}
	return path, nil
}
