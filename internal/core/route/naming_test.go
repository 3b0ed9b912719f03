package route

import (
	"testing"
	"time"

	"github.com/autofiler/autofiler/internal/core/domain"
)

func namingCandidate(name, ext string) domain.Candidate {
	return domain.Candidate{OriginalName: name, Extension: ext}
}

func namingType(pattern string) *domain.DocumentType {
	return &domain.DocumentType{ID: "w2", NamingPattern: pattern}
}

func TestResolveNameSubstitutesAllPlaceholders(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got, err := ResolveName(
		namingCandidate("scan.pdf", ".pdf"),
		namingType("{date}{separator}{type}{separator}{original_name}{separator}{counter}"),
		NamingDefaults{}, 3, now,
	)
	if err != nil {
		t.Fatalf("ResolveName() error = %v", err)
	}
	if got != "2026-03-15_w2_scan_3" {
		t.Fatalf("ResolveName() = %q", got)
	}
}

func TestResolveNameRejectsUnknownPlaceholder(t *testing.T) {
	patterns := []string{
		"{original_name}{year}",
		"{Date}{separator}{original_name}",
		"{original_name}{foo2}",
		"{X}",
		"{}",
	}
	for _, pattern := range patterns {
		_, err := ResolveName(
			namingCandidate("scan.pdf", ".pdf"),
			namingType(pattern),
			NamingDefaults{}, 0, time.Now(),
		)
		if !domain.IsKind(err, domain.ErrConfiguration) {
			t.Fatalf("pattern %q: expected ErrConfiguration, got %v", pattern, err)
		}
	}
}

func TestResolveNameAppliesCustomDefaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got, err := ResolveName(
		namingCandidate("Scan.PDF", ".PDF"),
		namingType("{date}{separator}{original_name}"),
		NamingDefaults{DateLayout: "20060102", Separator: "-", Lowercase: true},
		0, now,
	)
	if err != nil {
		t.Fatalf("ResolveName() error = %v", err)
	}
	if got != "20260315-scan" {
		t.Fatalf("ResolveName() = %q", got)
	}
}

func TestResolveNameStripsIllegalCharacters(t *testing.T) {
	got, err := ResolveName(
		namingCandidate(`in:voice<1>.pdf`, ".pdf"),
		namingType("{original_name}"),
		NamingDefaults{}, 0, time.Now(),
	)
	if err != nil {
		t.Fatalf("ResolveName() error = %v", err)
	}
	if got != "invoice1" {
		t.Fatalf("ResolveName() = %q, want illegal characters stripped", got)
	}
}
