// Package jsonfile is the durable type registry. Reads are lock-free
// through an atomically swapped snapshot; writes are serialized and use
// write-temp-then-rename so a crash mid-write never yields a corrupt
// registry.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/autofiler/autofiler/internal/core/domain"
)

const (
	typesFile   = "types.json"
	foldersFile = "folder_mappings.json"
	namingFile  = "naming_conventions.json"
)

var idRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type Registry struct {
	dir string

	mu       sync.Mutex // serializes Create
	snapshot atomic.Pointer[domain.Snapshot]
	now      func() time.Time
}

// Open loads the registry from dir, creating an empty one when the
// directory holds no types yet.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	r := &Registry{dir: dir, now: time.Now}

	types, err := r.loadTypes()
	if err != nil {
		return nil, err
	}
	r.swap(types)
	return r, nil
}

// Snapshot returns the current immutable view.
func (r *Registry) Snapshot() domain.Snapshot {
	return *r.snapshot.Load()
}

// Get returns the type by id or domain.ErrNotFound.
func (r *Registry) Get(id string) (*domain.DocumentType, error) {
	if t := r.Snapshot().Get(id); t != nil {
		return t, nil
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get type", fmt.Errorf("type %s", id))
}

// Create validates the definition, persists it durably, and publishes a
// new snapshot. Concurrent creates are serialized; the loser of a
// duplicate-id race fails with domain.ErrConflict.
func (r *Registry) Create(ctx context.Context, def domain.DocumentType) (*domain.DocumentType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.Snapshot()
	if err := validate(def, current); err != nil {
		return nil, err
	}

	def.CreatedAt = r.now().UTC()
	if def.Code == "" {
		def.Code = nextCode(current.Types)
	}
	if def.KeywordThreshold == 0 && len(def.ContentKeywords) > 0 {
		def.KeywordThreshold = 1
	}
	compilePatterns(&def)

	next := make([]*domain.DocumentType, 0, len(current.Types)+1)
	next = append(next, current.Types...)
	created := def
	next = append(next, &created)
	sort.Slice(next, func(i, j int) bool { return next[i].ID < next[j].ID })

	if err := r.persist(next); err != nil {
		return nil, fmt.Errorf("persist type %s: %w", def.ID, err)
	}
	r.swap(next)
	return &created, nil
}

func validate(def domain.DocumentType, snap domain.Snapshot) error {
	fail := func(err error) error {
		return domain.WrapError(domain.ErrValidation, "validate type definition", err)
	}
	if def.ID == "" {
		return fail(fmt.Errorf("type id is required"))
	}
	if !idRe.MatchString(def.ID) {
		return fail(fmt.Errorf("type id %q must be lowercase letters, digits, and underscores, starting with a letter", def.ID))
	}
	if snap.Get(def.ID) != nil {
		return domain.WrapError(domain.ErrConflict, "validate type definition",
			fmt.Errorf("type %s already exists", def.ID))
	}
	for _, f := range def.ContainerFormats {
		if len(f) < 2 || f[0] != '.' {
			return fail(fmt.Errorf("container format %q must start with a dot", f))
		}
	}
	if def.KeywordThreshold < 0 || def.KeywordThreshold > len(def.ContentKeywords) {
		return fail(fmt.Errorf("keyword threshold %d outside [0,%d]", def.KeywordThreshold, len(def.ContentKeywords)))
	}
	for _, p := range def.ContentPatterns {
		if _, err := regexp.Compile("(?i)" + p); err != nil {
			return fail(fmt.Errorf("content pattern %q: %w", p, err))
		}
	}
	if def.DestinationSubfolder == "" {
		return fail(fmt.Errorf("destination subfolder is required"))
	}
	if def.NamingPattern == "" {
		return fail(fmt.Errorf("naming pattern is required"))
	}
	return nil
}

// nextCode finds the lowest unused 3-digit code, skipping 000
// (reserved).
func nextCode(types []*domain.DocumentType) string {
	used := make(map[int]bool, len(types))
	for _, t := range types {
		var n int
		if _, err := fmt.Sscanf(t.Code, "%d", &n); err == nil {
			used[n] = true
		}
	}
	for c := 1; ; c++ {
		if !used[c] {
			return fmt.Sprintf("%03d", c)
		}
	}
}

func compilePatterns(t *domain.DocumentType) {
	res := make([]*regexp.Regexp, 0, len(t.ContentPatterns))
	for _, p := range t.ContentPatterns {
		// Hand-edited types.json may carry a bad pattern; skip it.
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			continue
		}
		res = append(res, re)
	}
	t.SetCompiledPatterns(res)
}

func (r *Registry) swap(types []*domain.DocumentType) {
	snap := domain.Snapshot{Types: types, Taken: r.now()}
	r.snapshot.Store(&snap)
}

// persist writes the auxiliary mappings first and types.json last, so
// types.json acts as the commit point: a type is visible after reload
// only when its folder and naming entries already exist.
func (r *Registry) persist(types []*domain.DocumentType) error {
	folders := make(map[string]string, len(types))
	naming := make(map[string]string, len(types))
	byID := make(map[string]*domain.DocumentType, len(types))
	for _, t := range types {
		folders[t.ID] = t.DestinationSubfolder
		naming[t.ID] = t.NamingPattern
		byID[t.ID] = t
	}

	if err := r.writeJSON(foldersFile, folders); err != nil {
		return err
	}
	if err := r.writeJSON(namingFile, naming); err != nil {
		return err
	}
	return r.writeJSON(typesFile, byID)
}

func (r *Registry) writeJSON(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	raw = append(raw, '\n')

	path := filepath.Join(r.dir, name)
	tmp, err := os.CreateTemp(r.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp for %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s into place: %w", name, err)
	}
	return nil
}

func (r *Registry) loadTypes() ([]*domain.DocumentType, error) {
	raw, err := os.ReadFile(filepath.Join(r.dir, typesFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", typesFile, err)
	}

	byID := map[string]*domain.DocumentType{}
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("parse %s: %w", typesFile, err)
	}

	types := make([]*domain.DocumentType, 0, len(byID))
	for id, t := range byID {
		t.ID = id
		compilePatterns(t)
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types, nil
}
