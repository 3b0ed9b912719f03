package match

import (
	"testing"

	"github.com/autofiler/autofiler/internal/core/domain"
)

func w2Type() *domain.DocumentType {
	return &domain.DocumentType{
		ID:               "w2",
		ContainerFormats: []string{".pdf"},
		ContentKeywords:  []string{"wages", "employer", "tax withheld"},
		ContentPatterns:  []string{`form\s+w-2`},
		KeywordThreshold: 2,
	}
}

func TestFormatMatchesCaseInsensitive(t *testing.T) {
	c := domain.Candidate{Extension: ".PDF"}
	r := Format(c, w2Type())
	if !r.Applicable || !r.Present {
		t.Fatalf("expected applicable present format signal, got %+v", r)
	}
}

func TestFormatMatchesUppercaseRegisteredFormat(t *testing.T) {
	typ := w2Type()
	typ.ContainerFormats = []string{".PDF"}
	r := Format(domain.Candidate{Extension: ".pdf"}, typ)
	if !r.Applicable || !r.Present {
		t.Fatalf("expected present format signal for .PDF type, got %+v", r)
	}
}

func TestFormatInapplicableWhenTypeHasNoFormats(t *testing.T) {
	typ := w2Type()
	typ.ContainerFormats = nil
	r := Format(domain.Candidate{Extension: ".pdf"}, typ)
	if r.Applicable {
		t.Fatalf("expected inapplicable signal, got %+v", r)
	}
	if r.Present {
		t.Fatalf("inapplicable signal must not be present")
	}
}

func TestKeywordCountsDistinctMatchesAgainstThreshold(t *testing.T) {
	c := domain.Candidate{Text: "Wages and EMPLOYER listed. wages repeated."}
	r := Keyword(c, w2Type())
	if !r.Applicable {
		t.Fatalf("expected applicable keyword signal")
	}
	if r.Count != 2 {
		t.Fatalf("expected 2 distinct keywords, got %d", r.Count)
	}
	if !r.Present {
		t.Fatalf("2 keywords meet threshold 2, expected present")
	}
}

func TestKeywordBelowThresholdIsAbsentNotInapplicable(t *testing.T) {
	c := domain.Candidate{Text: "only wages here"}
	r := Keyword(c, w2Type())
	if !r.Applicable {
		t.Fatalf("type defines keywords, signal must stay applicable")
	}
	if r.Present {
		t.Fatalf("1 keyword under threshold 2, expected absent")
	}
	if r.Count != 1 {
		t.Fatalf("expected count 1, got %d", r.Count)
	}
}

func TestPatternMatchesCaseInsensitive(t *testing.T) {
	c := domain.Candidate{Text: "This is Form W-2 Wage and Tax Statement"}
	r := Pattern(c, w2Type())
	if !r.Applicable || !r.Present {
		t.Fatalf("expected pattern match, got %+v", r)
	}
	if r.Evidence == "" {
		t.Fatalf("pattern evidence must name the matching pattern")
	}
}

func TestReferenceInapplicableWithoutPredicate(t *testing.T) {
	r := Reference(domain.Candidate{}, w2Type(), ReferenceChecks{})
	if r.Applicable {
		t.Fatalf("no predicate configured, expected inapplicable")
	}
}

func TestReferenceUsesConfiguredPredicate(t *testing.T) {
	checks := ReferenceChecks{
		"w2": func(c domain.Candidate) (bool, string) {
			return c.Text != "", "ein"
		},
	}
	r := Reference(domain.Candidate{Text: "x"}, w2Type(), checks)
	if !r.Applicable || !r.Present || r.Evidence != "ein" {
		t.Fatalf("expected present reference signal with evidence, got %+v", r)
	}
}

func TestAllIsDeterministic(t *testing.T) {
	c := domain.Candidate{Extension: ".pdf", Text: "wages employer form w-2"}
	typ := w2Type()
	first := All(c, typ, nil)
	second := All(c, typ, nil)
	for _, cat := range domain.AllSignalCategories {
		if first[cat] != second[cat] {
			t.Fatalf("category %s differs across runs: %+v vs %+v", cat, first[cat], second[cat])
		}
	}
}

func TestAllWithFailedExtractionKeepsFormatSignal(t *testing.T) {
	c := domain.Candidate{
		Extension:  ".pdf",
		Extraction: domain.Extraction{Success: false, FailureReason: "password-protected"},
	}
	signals := All(c, w2Type(), nil)
	if !signals[domain.SignalFormat].Present {
		t.Fatalf("format signal must survive a failed extraction")
	}
	if signals[domain.SignalKeyword].Present || signals[domain.SignalPattern].Present {
		t.Fatalf("content signals must be absent without text")
	}
}
