package domain

// ScoredMatch pairs a document type with its confidence score and the
// per-category signal breakdown that produced it.
type ScoredMatch struct {
	Type    *DocumentType `json:"-"`
	TypeID  string        `json:"type_id"`
	Score   float64       `json:"score"`
	Signals SignalSet     `json:"signals"`
}

// Decision kinds for a routed candidate.
type DecisionKind string

const (
	DecisionAutoFile DecisionKind = "auto_file"
	DecisionReview   DecisionKind = "review"
)

// Routing reasons surfaced to operators and the decision ledger.
const (
	ReasonNoMatchingType   = "no matching type"
	ReasonExtractionFailed = "extraction failed"
)

// RoutingDecision is the single output of the router for one candidate.
// Exactly one of AutoFile / Review is set, matching Kind.
type RoutingDecision struct {
	Kind     DecisionKind    `json:"kind"`
	AutoFile *AutoFileOrder  `json:"auto_file,omitempty"`
	Review   *ReviewRequired `json:"review,omitempty"`
}

// AutoFileOrder is an intention for the filer: the router resolves the
// destination and filename but never moves anything itself.
type AutoFileOrder struct {
	Type             *DocumentType `json:"-"`
	TypeID           string        `json:"type_id"`
	Score            float64       `json:"score"`
	DestinationPath  string        `json:"destination_path"`
	ResolvedFilename string        `json:"resolved_filename"`
}

// ReviewRequired routes a candidate to the human review queue. BestMatch
// is carried for operator context when one exists.
type ReviewRequired struct {
	Candidate Candidate    `json:"candidate"`
	BestMatch *ScoredMatch `json:"best_match,omitempty"`
	Reason    string       `json:"reason"`
}
