package domain

import "time"

// ReviewStatus is the state of a queued review item.
//
//	Pending -> InProgress -> Resolved
//	               |
//	               +-> Pending (deferred or released on shutdown)
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewInProgress ReviewStatus = "in_progress"
	ReviewResolved   ReviewStatus = "resolved"
)

// ReviewItem is a candidate awaiting human resolution. Owned exclusively
// by the review queue; state transitions go through claim/resolve/defer.
type ReviewItem struct {
	ID         string       `json:"id"`
	Candidate  Candidate    `json:"candidate"`
	BestMatch  *ScoredMatch `json:"best_match,omitempty"`
	Reason     string       `json:"reason"`
	Status     ReviewStatus `json:"status"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
	ClaimedAt  time.Time    `json:"claimed_at,omitzero"`
	ResolvedAt time.Time    `json:"resolved_at,omitzero"`
	// ResolvedAs records the chosen type id once the item is resolved.
	ResolvedAs string `json:"resolved_as,omitempty"`
	// NewType marks resolutions that created the type during the session.
	NewType bool `json:"new_type,omitempty"`
}
