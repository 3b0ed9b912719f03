package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/match"
	"github.com/autofiler/autofiler/internal/core/route"
)

// Rules is the classification-rules file: signal weights, the routing
// threshold, and the optional per-type reference checks. Invalid rules
// are fatal at load time; the process must stop rather than corrupt
// downstream decisions.
type Rules struct {
	SignalWeights map[string]float64 `yaml:"signal_weights"`
	// ConfidenceThreshold is inclusive: a best score equal to it is
	// auto-filed.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	// MinSignals is the minimum number of present signal categories a
	// match needs to qualify as best candidate.
	MinSignals int                  `yaml:"min_signals"`
	Naming     route.NamingDefaults `yaml:"naming"`
	// ReferenceChecks maps type id to a regular expression the extracted
	// text must match for the reference signal to be present.
	ReferenceChecks map[string]string `yaml:"reference_checks"`
}

var knownSignals = map[string]domain.SignalCategory{
	"format":    domain.SignalFormat,
	"keyword":   domain.SignalKeyword,
	"pattern":   domain.SignalPattern,
	"reference": domain.SignalReference,
}

// LoadRules parses and validates the rules file.
func LoadRules(path string) (Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, domain.WrapError(domain.ErrConfiguration, "read rules file", err)
	}
	var r Rules
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return Rules{}, domain.WrapError(domain.ErrConfiguration, "parse rules file", err)
	}
	if err := r.validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

func (r Rules) validate() error {
	var total float64
	for name, w := range r.SignalWeights {
		if _, ok := knownSignals[name]; !ok {
			return domain.WrapError(domain.ErrConfiguration, "validate rules",
				fmt.Errorf("unknown signal category %q", name))
		}
		if w < 0 {
			return domain.WrapError(domain.ErrConfiguration, "validate rules",
				fmt.Errorf("negative weight %.4f for signal %q", w, name))
		}
		total += w
	}
	if total == 0 {
		return domain.WrapError(domain.ErrConfiguration, "validate rules",
			fmt.Errorf("signal weights must include at least one positive weight"))
	}
	if r.ConfidenceThreshold < 0 || r.ConfidenceThreshold > 1 {
		return domain.WrapError(domain.ErrConfiguration, "validate rules",
			fmt.Errorf("confidence threshold %.4f outside [0,1]", r.ConfidenceThreshold))
	}
	if r.MinSignals < 0 {
		return domain.WrapError(domain.ErrConfiguration, "validate rules",
			fmt.Errorf("min_signals %d must not be negative", r.MinSignals))
	}
	for typeID, pattern := range r.ReferenceChecks {
		if _, err := regexp.Compile(pattern); err != nil {
			return domain.WrapError(domain.ErrConfiguration, "validate rules",
				fmt.Errorf("reference check for type %s: %w", typeID, err))
		}
	}
	return nil
}

// Weights converts the named weights into the scorer's shape.
func (r Rules) Weights() domain.SignalWeights {
	w := domain.SignalWeights{}
	for name, cat := range knownSignals {
		w[cat] = r.SignalWeights[name]
	}
	return w
}

// CompileReferenceChecks builds the matcher predicates from the
// configured expressions. Validation has already proven they compile.
func (r Rules) CompileReferenceChecks() match.ReferenceChecks {
	checks := match.ReferenceChecks{}
	for typeID, pattern := range r.ReferenceChecks {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		checks[typeID] = func(c domain.Candidate) (bool, string) {
			if loc := re.FindString(c.Text); loc != "" {
				return true, loc
			}
			return false, ""
		}
	}
	return checks
}
