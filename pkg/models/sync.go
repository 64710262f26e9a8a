package models

// SyncStatus classifies how an artifact pair's findings line up between
// the API specification checks and the implementation checks.
type SyncStatus string

const (
	SyncInSync    SyncStatus = "in_sync"
	SyncSpecOnly  SyncStatus = "spec_only"
	SyncCodeOnly  SyncStatus = "code_only"
	SyncBothWrong SyncStatus = "both_wrong"
	SyncConflict  SyncStatus = "conflict"
)

// SyncEntry is the verdict for one artifact pair: a specification
// document and one implementation artifact related to it. Pairs missing
// one side carry only the flagged artifact.
type SyncEntry struct {
	SpecFile       string      `json:"spec_file,omitempty"`
	CodeFile       string      `json:"code_file,omitempty"`
	Status         SyncStatus  `json:"status"`
	SpecViolations []Violation `json:"spec_violations,omitempty"`
	CodeViolations []Violation `json:"code_violations,omitempty"`
	SharedRules    []string    `json:"shared_rules,omitempty"` // spec-side rule names both layers break
	Detail         string      `json:"detail,omitempty"`
}

// SyncSummary counts entries per status.
type SyncSummary struct {
	Total     int `json:"total"`
	InSync    int `json:"in_sync"`
	SpecOnly  int `json:"spec_only"`
	CodeOnly  int `json:"code_only"`
	BothWrong int `json:"both_wrong"`
	Conflict  int `json:"conflict"`
}

// SyncReport is the full spec/implementation consistency result.
type SyncReport struct {
	Entries         []SyncEntry `json:"entries"`
	Summary         SyncSummary `json:"summary"`
	Recommendations []string    `json:"recommendations,omitempty"`
}
