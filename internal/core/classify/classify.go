// Package classify ranks every registered document type against a
// candidate. Classification is a pure function of (candidate, registry
// snapshot, weights): identical inputs always yield identical ordered
// output, which keeps re-classification after manual registry edits
// safe.
package classify

import (
	"sort"

	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/match"
	"github.com/autofiler/autofiler/internal/core/score"
)

type Classifier struct {
	weights domain.SignalWeights
	checks  match.ReferenceChecks
}

func New(weights domain.SignalWeights, checks match.ReferenceChecks) *Classifier {
	if checks == nil {
		checks = match.ReferenceChecks{}
	}
	return &Classifier{weights: weights, checks: checks}
}

// Classify scores the candidate against every type in the snapshot.
// Output is sorted descending by score, ties broken ascending by type
// id.
func (c *Classifier) Classify(cand domain.Candidate, snap domain.Snapshot) []domain.ScoredMatch {
	matches := make([]domain.ScoredMatch, 0, len(snap.Types))
	for _, t := range snap.Types {
		signals := match.All(cand, t, c.checks)
		matches = append(matches, domain.ScoredMatch{
			Type:    t,
			TypeID:  t.ID,
			Score:   score.Confidence(signals, c.weights),
			Signals: signals,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].TypeID < matches[j].TypeID
	})
	return matches
}

// BestMatch returns the head of the ranked sequence, or nil for an
// empty registry.
func (c *Classifier) BestMatch(cand domain.Candidate, snap domain.Snapshot) *domain.ScoredMatch {
	matches := c.Classify(cand, snap)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}
