// Package route applies the confidence threshold and resolves filing
// destinations. The router is the single decision point per candidate:
// it emits exactly one decision, either an auto-file intention or a
// review-queue entry, and never performs the physical move itself.
package route

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/autofiler/autofiler/internal/core/domain"
)

type Router struct {
	destinationRoot string
	threshold       float64
	// minSignals is the minimum number of present signal categories a
	// match needs to be eligible for auto-filing.
	minSignals int
	naming     NamingDefaults
	now        func() time.Time
}

func New(destinationRoot string, threshold float64, minSignals int, naming NamingDefaults) *Router {
	if minSignals < 1 {
		minSignals = 1
	}
	return &Router{
		destinationRoot: destinationRoot,
		threshold:       threshold,
		minSignals:      minSignals,
		naming:          naming,
		now:             time.Now,
	}
}

// WithClock overrides the router's clock; used by tests.
func (r *Router) WithClock(now func() time.Time) *Router {
	r.now = now
	return r
}

// Route decides auto-file vs review for a ranked match list. The
// threshold is inclusive: a best score equal to the threshold is
// auto-filed.
func (r *Router) Route(c domain.Candidate, matches []domain.ScoredMatch) (domain.RoutingDecision, error) {
	best := r.bestEligible(matches)
	if best == nil {
		return r.review(c, nil, r.reviewReason(c, nil)), nil
	}
	if best.Score < r.threshold {
		return r.review(c, best, r.reviewReason(c, best)), nil
	}
	return r.autoFile(c, best.Type, best.Score)
}

// RouteResolved re-routes a candidate after manual review assigned it a
// type. The score is pinned to 1.0 and the threshold does not apply.
func (r *Router) RouteResolved(c domain.Candidate, t *domain.DocumentType) (domain.RoutingDecision, error) {
	return r.autoFile(c, t, 1.0)
}

func (r *Router) bestEligible(matches []domain.ScoredMatch) *domain.ScoredMatch {
	for i := range matches {
		if matches[i].Signals.PresentCount() >= r.minSignals {
			return &matches[i]
		}
	}
	return nil
}

func (r *Router) reviewReason(c domain.Candidate, best *domain.ScoredMatch) string {
	if c.ExtractionFailed() {
		return domain.ReasonExtractionFailed
	}
	if best == nil {
		return domain.ReasonNoMatchingType
	}
	return fmt.Sprintf("best match %s scored %.4f < threshold %.4f", best.TypeID, best.Score, r.threshold)
}

func (r *Router) review(c domain.Candidate, best *domain.ScoredMatch, reason string) domain.RoutingDecision {
	return domain.RoutingDecision{
		Kind: domain.DecisionReview,
		Review: &domain.ReviewRequired{
			Candidate: c,
			BestMatch: best,
			Reason:    reason,
		},
	}
}

func (r *Router) autoFile(c domain.Candidate, t *domain.DocumentType, score float64) (domain.RoutingDecision, error) {
	stem, err := ResolveName(c, t, r.naming, 0, r.now())
	if err != nil {
		return domain.RoutingDecision{}, err
	}
	return domain.RoutingDecision{
		Kind: domain.DecisionAutoFile,
		AutoFile: &domain.AutoFileOrder{
			Type:             t,
			TypeID:           t.ID,
			Score:            score,
			DestinationPath:  filepath.Join(r.destinationRoot, filepath.FromSlash(t.DestinationSubfolder)),
			ResolvedFilename: stem + c.Extension,
		},
	}, nil
}
