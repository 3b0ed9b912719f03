package domain

// SignalCategory is one category of evidence that a candidate matches a
// document type.
type SignalCategory string

const (
	SignalFormat    SignalCategory = "format"
	SignalKeyword   SignalCategory = "keyword"
	SignalPattern   SignalCategory = "pattern"
	SignalReference SignalCategory = "reference"
)

// AllSignalCategories lists the closed set of categories in scoring
// order.
var AllSignalCategories = []SignalCategory{
	SignalFormat, SignalKeyword, SignalPattern, SignalReference,
}

// SignalResult is the uniform outcome shape shared by every matcher.
// Applicable distinguishes "the type does not constrain this category"
// from "the category was checked and is absent": an inapplicable
// category contributes neither weight nor penalty.
type SignalResult struct {
	Category   SignalCategory `json:"category"`
	Applicable bool           `json:"applicable"`
	Present    bool           `json:"present"`
	// Evidence explains the result: matched keyword count, matching
	// pattern sources, the matched format, or the reference check name.
	Evidence string `json:"evidence,omitempty"`
	// Count is the raw match count where the category has one (distinct
	// keywords found, patterns matched).
	Count int `json:"count,omitempty"`
}

// SignalSet holds one result per category for a (candidate, type) pair.
type SignalSet map[SignalCategory]SignalResult

// PresentCount returns the number of applicable categories that are
// present.
func (s SignalSet) PresentCount() int {
	n := 0
	for _, r := range s {
		if r.Applicable && r.Present {
			n++
		}
	}
	return n
}

// SignalWeights is the process-wide weight configuration, one
// non-negative weight per category.
type SignalWeights map[SignalCategory]float64
