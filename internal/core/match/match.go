// Package match computes the evidence signals for a (candidate, type)
// pair. Matchers are pure functions: identical inputs always produce
// identical results.
package match

import (
	"fmt"
	"strings"

	"github.com/autofiler/autofiler/internal/core/domain"
)

// ReferencePredicate is an optional, type-specific structural check
// supplied by configuration (account-number formats and similar). It
// reports presence plus a short evidence string.
type ReferencePredicate func(c domain.Candidate) (bool, string)

// ReferenceChecks maps type id to its configured predicate. Types
// without an entry treat the reference category as inapplicable.
type ReferenceChecks map[string]ReferencePredicate

// Format reports whether the candidate's detected container format is
// one of the type's accepted formats. A type with no formats leaves the
// category inapplicable rather than absent.
func Format(c domain.Candidate, t *domain.DocumentType) domain.SignalResult {
	r := domain.SignalResult{Category: domain.SignalFormat}
	if len(t.ContainerFormats) == 0 {
		return r
	}
	r.Applicable = true
	if t.HasFormat(strings.ToLower(c.Extension)) {
		r.Present = true
		r.Evidence = c.Extension
	}
	return r
}

// Keyword counts distinct content keywords found in the extracted text,
// case-insensitive. The signal is present when the count meets the
// type's keyword threshold; the raw count is kept for explainability.
func Keyword(c domain.Candidate, t *domain.DocumentType) domain.SignalResult {
	r := domain.SignalResult{Category: domain.SignalKeyword}
	if len(t.ContentKeywords) == 0 {
		return r
	}
	r.Applicable = true

	text := strings.ToLower(c.Text)
	seen := make(map[string]bool, len(t.ContentKeywords))
	for _, kw := range t.ContentKeywords {
		k := strings.ToLower(kw)
		if k == "" || seen[k] {
			continue
		}
		if strings.Contains(text, k) {
			seen[k] = true
		}
	}
	r.Count = len(seen)
	if r.Count >= t.KeywordThreshold {
		r.Present = true
		r.Evidence = fmt.Sprintf("%d/%d keywords", r.Count, len(t.ContentKeywords))
	}
	return r
}

// Pattern reports whether any of the type's content patterns match the
// extracted text, recording which ones did.
func Pattern(c domain.Candidate, t *domain.DocumentType) domain.SignalResult {
	r := domain.SignalResult{Category: domain.SignalPattern}
	if len(t.ContentPatterns) == 0 {
		return r
	}
	r.Applicable = true

	var matched []string
	for i, re := range t.CompiledPatterns() {
		if re.MatchString(c.Text) {
			matched = append(matched, t.ContentPatterns[i])
		}
	}
	r.Count = len(matched)
	if r.Count > 0 {
		r.Present = true
		r.Evidence = strings.Join(matched, "; ")
	}
	return r
}

// Reference evaluates the configured structural predicate for the type,
// if any. Without a predicate the category is inapplicable.
func Reference(c domain.Candidate, t *domain.DocumentType, checks ReferenceChecks) domain.SignalResult {
	r := domain.SignalResult{Category: domain.SignalReference}
	pred, ok := checks[t.ID]
	if !ok || pred == nil {
		return r
	}
	r.Applicable = true
	present, evidence := pred(c)
	r.Present = present
	r.Evidence = evidence
	return r
}

// All runs every matcher for one (candidate, type) pair. A candidate
// whose extraction failed carries no text, so content signals come out
// absent while the format signal may still apply.
func All(c domain.Candidate, t *domain.DocumentType, checks ReferenceChecks) domain.SignalSet {
	return domain.SignalSet{
		domain.SignalFormat:    Format(c, t),
		domain.SignalKeyword:   Keyword(c, t),
		domain.SignalPattern:   Pattern(c, t),
		domain.SignalReference: Reference(c, t, checks),
	}
}
