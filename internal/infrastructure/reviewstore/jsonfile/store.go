// Package jsonfile persists review queue state as a single JSON file
// with atomic replacement, so queue state survives restarts intact.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/autofiler/autofiler/internal/core/domain"
)

type Store struct {
	path string
}

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create review state dir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(_ context.Context) ([]*domain.ReviewItem, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read review state: %w", err)
	}
	var items []*domain.ReviewItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse review state: %w", err)
	}
	return items, nil
}

func (s *Store) Save(_ context.Context, items []*domain.ReviewItem) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal review state: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "review_state.tmp-*")
	if err != nil {
		return fmt.Errorf("create temp review state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp review state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp review state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp review state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace review state: %w", err)
	}
	return nil
}
