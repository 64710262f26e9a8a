package models

import "time"

// ReviewDecision is the state of a fix in the review ledger.
type ReviewDecision string

const (
	DecisionPending  ReviewDecision = "pending"
	DecisionApproved ReviewDecision = "approved"
	DecisionRejected ReviewDecision = "rejected"
	DecisionSkipped  ReviewDecision = "skipped"
)

// ReviewComment records a free-form note attached to a fix during review.
type ReviewComment struct {
	FixID     string    `json:"fix_id"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewSummary counts fixes per decision. Pending+Approved+Rejected+Skipped
// always equals Total.
type ReviewSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Skipped  int `json:"skipped"`
}

// ReviewRecord is the persisted shape of a review session.
type ReviewRecord struct {
	SessionID string                    `json:"session_id,omitempty"`
	Decisions map[string]ReviewDecision `json:"decisions"`
	Comments  []ReviewComment           `json:"comments"`
	Summary   ReviewSummary             `json:"summary"`
}
