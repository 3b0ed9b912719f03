package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/autofiler/autofiler/internal/core/domain"
)

// newCandidate builds the immutable candidate for one pipeline run. The
// hash and size are best effort: a file that cannot be read here will
// also fail extraction and route to review.
func newCandidate(path string, discovered time.Time) domain.Candidate {
	cand := domain.Candidate{
		ID:           uuid.NewString(),
		Path:         path,
		OriginalName: filepath.Base(path),
		Extension:    strings.ToLower(filepath.Ext(path)),
		DiscoveredAt: discovered,
	}
	if info, err := os.Stat(path); err == nil {
		cand.SizeBytes = info.Size()
	}
	if sum, err := hashFile(path); err == nil {
		cand.SHA256 = sum
	}
	return cand
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
