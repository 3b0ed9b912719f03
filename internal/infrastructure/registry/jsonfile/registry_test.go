package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/autofiler/autofiler/internal/core/domain"
)

func validDef(id string) domain.DocumentType {
	return domain.DocumentType{
		ID:                   id,
		ContainerFormats:     []string{".pdf"},
		ContentKeywords:      []string{"wages", "employer"},
		ContentPatterns:      []string{`form\s+w-2`},
		KeywordThreshold:     1,
		DestinationSubfolder: "Taxes/W2",
		NamingPattern:        "{original_name}",
	}
}

func TestOpenEmptyDirYieldsEmptySnapshot(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if n := len(r.Snapshot().Types); n != 0 {
		t.Fatalf("expected empty registry, got %d types", n)
	}
}

func TestCreatePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	created, err := r.Create(context.Background(), validDef("w2"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Code != "001" {
		t.Fatalf("first type code = %s, want 001", created.Code)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt must be set")
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got, err := reopened.Get("w2")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.DestinationSubfolder != "Taxes/W2" || len(got.CompiledPatterns()) != 1 {
		t.Fatalf("reloaded type = %+v", got)
	}

	for _, name := range []string{typesFile, foldersFile, namingFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
}

func TestCreateIsVisibleInNextSnapshot(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	before := r.Snapshot()

	if _, err := r.Create(context.Background(), validDef("w2")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(before.Types) != 0 {
		t.Fatalf("existing snapshot must stay immutable, got %d types", len(before.Types))
	}
	if r.Snapshot().Get("w2") == nil {
		t.Fatalf("new snapshot must contain the created type")
	}
}

func TestCreateDuplicateIDConflicts(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := r.Create(context.Background(), validDef("w2")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err = r.Create(context.Background(), validDef("w2"))
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.DocumentType)
	}{
		{"empty id", func(d *domain.DocumentType) { d.ID = "" }},
		{"uppercase id", func(d *domain.DocumentType) { d.ID = "W2" }},
		{"id starting with digit", func(d *domain.DocumentType) { d.ID = "2w" }},
		{"format without dot", func(d *domain.DocumentType) { d.ContainerFormats = []string{"pdf"} }},
		{"threshold above keyword count", func(d *domain.DocumentType) { d.KeywordThreshold = 5 }},
		{"invalid pattern", func(d *domain.DocumentType) { d.ContentPatterns = []string{"("} }},
		{"missing subfolder", func(d *domain.DocumentType) { d.DestinationSubfolder = "" }},
		{"missing naming pattern", func(d *domain.DocumentType) { d.NamingPattern = "" }},
	}
	for i, tc := range cases {
		def := validDef(fmt.Sprintf("case_%d", i))
		tc.mutate(&def)
		if _, err := r.Create(context.Background(), def); !domain.IsKind(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestCodesAssignLowestUnused(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	withCode := validDef("pinned")
	withCode.Code = "002"
	if _, err := r.Create(context.Background(), withCode); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	a, err := r.Create(context.Background(), validDef("alpha"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b, err := r.Create(context.Background(), validDef("beta"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.Code != "001" || b.Code != "003" {
		t.Fatalf("codes = %s, %s; want 001 and 003 around the pinned 002", a.Code, b.Code)
	}
}

func TestConcurrentCreatesAllSucceedWithDistinctCodes(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Create(context.Background(), validDef(fmt.Sprintf("type_%d", i)))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	snap := r.Snapshot()
	if len(snap.Types) != n {
		t.Fatalf("expected %d types, got %d", n, len(snap.Types))
	}
	codes := map[string]bool{}
	for _, typ := range snap.Types {
		if codes[typ.Code] {
			t.Fatalf("duplicate code %s", typ.Code)
		}
		codes[typ.Code] = true
	}
}

func TestGetUnknownTypeIsNotFound(t *testing.T) {
	r, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := r.Get("missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
