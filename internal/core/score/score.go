// Package score combines signal evidence into a normalized confidence
// score.
package score

import "github.com/autofiler/autofiler/internal/core/domain"

// Confidence returns a score in [0,1]: the weight sum of present
// applicable categories divided by the weight sum of all applicable
// categories. Categories the type does not constrain are excluded from
// both numerator and denominator, so loosely specified types are not
// penalized for omitted categories while strictly specified types must
// satisfy more evidence to reach the same score. A type with zero
// applicable categories scores 0 and can never be selected.
func Confidence(signals domain.SignalSet, weights domain.SignalWeights) float64 {
	var present, applicable float64
	for _, cat := range domain.AllSignalCategories {
		r, ok := signals[cat]
		if !ok || !r.Applicable {
			continue
		}
		w := weights[cat]
		applicable += w
		if r.Present {
			present += w
		}
	}
	if applicable <= 0 {
		return 0
	}
	return present / applicable
}
