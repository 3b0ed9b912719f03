package domain

import "time"

// FilingResult reports a completed physical move.
type FilingResult struct {
	Source           string `json:"source"`
	Destination      string `json:"destination"`
	DuplicateHandled bool   `json:"duplicate_handled"`
}

// Sidecar is the JSON metadata record written next to a filed document.
type Sidecar struct {
	SchemaVersion string            `json:"schema_version"`
	ProcessedAt   time.Time         `json:"processing_timestamp"`
	SourceFile    string            `json:"source_file"`
	SourceHash    string            `json:"source_hash"`
	VaultFile     string            `json:"vault_file,omitempty"`
	DocumentType  string            `json:"document_type"`
	TypeCode      string            `json:"doc_type_code"`
	Confidence    float64           `json:"confidence_score"`
	Decision      DecisionKind      `json:"decision"`
	FiledName     string            `json:"filed_name"`
	ReviewInfo    map[string]string `json:"review_info,omitempty"`
	ExtractedText string            `json:"extracted_text"`
}

// SidecarSchemaVersion identifies the sidecar layout in use.
const SidecarSchemaVersion = "1.2"

// DecisionRecord is the durable ledger row for one routed candidate.
// Exactly one record exists per intake path; its presence makes repeat
// notifications for the same path a no-op.
type DecisionRecord struct {
	Path        string       `json:"path"`
	SHA256      string       `json:"sha256"`
	Decision    DecisionKind `json:"decision"`
	TypeID      string       `json:"type_id,omitempty"`
	Score       float64      `json:"score"`
	Reason      string       `json:"reason,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Resolved    bool         `json:"resolved"`
	DecidedAt   time.Time    `json:"decided_at"`
}
