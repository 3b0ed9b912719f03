package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/autofiler/autofiler/internal/core/domain"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	return path
}

const validRules = `
signal_weights:
  format: 0.2
  keyword: 0.5
  pattern: 0.2
  reference: 0.1
confidence_threshold: 0.75
min_signals: 1
naming:
  date_layout: "2006-01-02"
  separator: "_"
reference_checks:
  w2: '(?i)employer identification number'
`

func TestLoadRulesParsesValidFile(t *testing.T) {
	r, err := LoadRules(writeRules(t, validRules))
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if r.ConfidenceThreshold != 0.75 || r.MinSignals != 1 {
		t.Fatalf("rules = %+v", r)
	}

	w := r.Weights()
	if w[domain.SignalKeyword] != 0.5 || w[domain.SignalFormat] != 0.2 {
		t.Fatalf("weights = %v", w)
	}

	checks := r.CompileReferenceChecks()
	pred, ok := checks["w2"]
	if !ok {
		t.Fatalf("expected reference check for w2")
	}
	present, evidence := pred(domain.Candidate{Text: "Employer Identification Number: 12-3456789"})
	if !present || evidence == "" {
		t.Fatalf("predicate = %v, %q", present, evidence)
	}
	if present, _ := pred(domain.Candidate{Text: "unrelated"}); present {
		t.Fatalf("predicate must be absent on non-matching text")
	}
}

func TestLoadRulesRejectsUnknownSignal(t *testing.T) {
	_, err := LoadRules(writeRules(t, `
signal_weights:
  vibes: 1.0
confidence_threshold: 0.5
`))
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRulesRejectsNegativeWeight(t *testing.T) {
	_, err := LoadRules(writeRules(t, `
signal_weights:
  keyword: -0.5
confidence_threshold: 0.5
`))
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRulesRejectsAllZeroWeights(t *testing.T) {
	_, err := LoadRules(writeRules(t, `
signal_weights:
  keyword: 0
confidence_threshold: 0.5
`))
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRulesRejectsThresholdOutsideUnitInterval(t *testing.T) {
	for _, th := range []string{"-0.1", "1.5"} {
		_, err := LoadRules(writeRules(t, `
signal_weights:
  keyword: 1.0
confidence_threshold: `+th))
		if !domain.IsKind(err, domain.ErrConfiguration) {
			t.Fatalf("threshold %s: expected ErrConfiguration, got %v", th, err)
		}
	}
}

func TestLoadRulesRejectsInvalidReferenceRegex(t *testing.T) {
	_, err := LoadRules(writeRules(t, `
signal_weights:
  keyword: 1.0
confidence_threshold: 0.5
reference_checks:
  w2: '('
`))
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRulesMissingFileIsConfigurationError(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
