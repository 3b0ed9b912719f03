package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Vault archives originals before filing. The archived name is the
// type code plus a single placeholder digit prefixed to the original
// filename, e.g. code 003 + "invoice.pdf" -> "0030invoice.pdf".
type Vault struct {
	dir string
	now func() time.Time
}

func NewVault(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &Vault{dir: dir, now: time.Now}, nil
}

func (v *Vault) Archive(_ context.Context, sourcePath, typeCode string) (string, error) {
	coded := typeCode + "0" + filepath.Base(sourcePath)
	dest := filepath.Join(v.dir, coded)

	if exists(dest) {
		ext := filepath.Ext(coded)
		stem := coded[:len(coded)-len(ext)]
		dest = filepath.Join(v.dir, fmt.Sprintf("%s_%s%s", stem, v.now().Format("20060102150405"), ext))
	}

	if err := copyFile(sourcePath, dest); err != nil {
		return "", fmt.Errorf("copy to vault: %w", err)
	}
	return dest, nil
}
