package domain

import "time"

// Extraction carries the outcome of the text extraction call for a
// candidate. A failed extraction is not a pipeline error: the candidate
// still flows through classification with empty text.
type Extraction struct {
	Success       bool   `json:"success"`
	FailureReason string `json:"failure_reason,omitempty"`
	Pages         int    `json:"pages,omitempty"`
}

// Candidate is a document under classification. Immutable once
// constructed for a given classification pass.
type Candidate struct {
	ID           string     `json:"id"`
	Path         string     `json:"path"`
	OriginalName string     `json:"original_name"`
	Extension    string     `json:"extension"`
	Text         string     `json:"text"`
	SHA256       string     `json:"sha256,omitempty"`
	SizeBytes    int64      `json:"size_bytes"`
	DiscoveredAt time.Time  `json:"discovered_at"`
	Extraction   Extraction `json:"extraction"`
}

// ExtractionFailed reports whether the candidate carries no usable text
// because extraction did not succeed.
func (c Candidate) ExtractionFailed() bool {
	return !c.Extraction.Success
}
