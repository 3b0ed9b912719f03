// Package localfs executes filing intentions on the local filesystem:
// the physical move, the vault archive of the original, and the JSON
// sidecar. Name collisions at the destination are disambiguated here,
// never by the router.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/autofiler/autofiler/internal/core/domain"
)

type Filer struct {
	now func() time.Time
}

func NewFiler() *Filer {
	return &Filer{now: time.Now}
}

// WithClock overrides the collision-suffix clock; used by tests.
func (f *Filer) WithClock(now func() time.Time) *Filer {
	f.now = now
	return f
}

func (f *Filer) File(_ context.Context, sourcePath, destinationDir, filename string) (domain.FilingResult, error) {
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return domain.FilingResult{}, fmt.Errorf("create destination dir: %w", err)
	}

	target := filepath.Join(destinationDir, filename)
	duplicate := exists(target)
	if duplicate {
		target = f.disambiguate(target)
	}

	if err := move(sourcePath, target); err != nil {
		return domain.FilingResult{}, fmt.Errorf("move file: %w", err)
	}
	return domain.FilingResult{
		Source:           sourcePath,
		Destination:      target,
		DuplicateHandled: duplicate,
	}, nil
}

// disambiguate appends a timestamp suffix, and a counter for the rare
// same-second collision.
func (f *Filer) disambiguate(target string) string {
	dir := filepath.Dir(target)
	ext := filepath.Ext(target)
	stem := filepath.Base(target)
	stem = stem[:len(stem)-len(ext)]

	ts := f.now().Format("20060102_150405")
	candidate := filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, ts, ext))
	for counter := 1; exists(candidate); counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%s_%d%s", stem, ts, counter, ext))
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// move renames, falling back to copy+remove across filesystems.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
