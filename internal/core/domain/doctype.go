package domain

import (
	"regexp"
	"strings"
	"time"
)

// DocumentType is a classification target. The ID is immutable once the
// type has been persisted; everything else describes how a candidate is
// matched and where it is filed.
type DocumentType struct {
	ID                   string    `json:"id" yaml:"id"`
	Code                 string    `json:"code" yaml:"code"`
	ContainerFormats     []string  `json:"container_formats" yaml:"container_formats"`
	ContentKeywords      []string  `json:"content_keywords" yaml:"content_keywords"`
	ContentPatterns      []string  `json:"content_patterns" yaml:"content_patterns"`
	KeywordThreshold     int       `json:"keyword_threshold" yaml:"keyword_threshold"`
	DestinationSubfolder string    `json:"destination_subfolder" yaml:"destination_subfolder"`
	NamingPattern        string    `json:"naming_pattern" yaml:"naming_pattern"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at"`

	// compiled is populated when the type is loaded or created; patterns
	// that reach this struct are guaranteed to compile.
	compiled []*regexp.Regexp
}

// SetCompiledPatterns attaches pre-compiled content patterns. The slice
// must correspond 1:1 to ContentPatterns.
func (t *DocumentType) SetCompiledPatterns(res []*regexp.Regexp) {
	t.compiled = res
}

// CompiledPatterns returns the compiled content patterns, compiling
// lazily if the type was constructed by hand (tests, fixtures).
func (t *DocumentType) CompiledPatterns() []*regexp.Regexp {
	if t.compiled == nil && len(t.ContentPatterns) > 0 {
		res := make([]*regexp.Regexp, 0, len(t.ContentPatterns))
		for _, p := range t.ContentPatterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				continue
			}
			res = append(res, re)
		}
		t.compiled = res
	}
	return t.compiled
}

// HasFormat reports whether ext (dot-prefixed) is one of the type's
// accepted container formats. Comparison is case-insensitive so types
// registered or hand-edited with ".PDF" still match ".pdf" candidates.
func (t *DocumentType) HasFormat(ext string) bool {
	for _, f := range t.ContainerFormats {
		if strings.EqualFold(f, ext) {
			return true
		}
	}
	return false
}

// Snapshot is an immutable view of the registry taken at the start of a
// classification pass. Types are sorted ascending by ID.
type Snapshot struct {
	Types []*DocumentType
	Taken time.Time
}

// Get returns the type with the given id, or nil.
func (s Snapshot) Get(id string) *DocumentType {
	for _, t := range s.Types {
		if t.ID == id {
			return t
		}
	}
	return nil
}
