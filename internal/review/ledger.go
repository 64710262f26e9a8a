// Package review tracks human decisions over proposed fixes and drives
// the interactive review session.
package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Ledger records a decision for every fix under review. Fixes start
// pending; each may move to approved, rejected, or skipped. Decisions can
// be revised until the ledger is persisted.
type Ledger struct {
	sessionID string
	fixes     []models.ProposedFix
	decisions map[string]models.ReviewDecision
	comments  []models.ReviewComment
	now       func() time.Time
}

// NewLedger creates a ledger with every fix pending.
func NewLedger(fixes []models.ProposedFix) *Ledger {
	l := &Ledger{
		sessionID: uuid.NewString(),
		fixes:     fixes,
		decisions: make(map[string]models.ReviewDecision, len(fixes)),
		now:       time.Now,
	}
	for _, f := range fixes {
		l.decisions[f.FixID] = models.DecisionPending
	}
	return l
}

// Fixes returns the fixes under review in their original order.
func (l *Ledger) Fixes() []models.ProposedFix {
	return l.fixes
}

// Decision returns the current decision for a fix.
func (l *Ledger) Decision(fixID string) (models.ReviewDecision, error) {
	d, ok := l.decisions[fixID]
	if !ok {
		return "", fmt.Errorf("unknown fix id %q", fixID)
	}
	return d, nil
}

// Approve marks a fix approved.
func (l *Ledger) Approve(fixID string) error {
	return l.decide(fixID, models.DecisionApproved)
}

// Reject marks a fix rejected.
func (l *Ledger) Reject(fixID string) error {
	return l.decide(fixID, models.DecisionRejected)
}

// Skip marks a fix skipped.
func (l *Ledger) Skip(fixID string) error {
	return l.decide(fixID, models.DecisionSkipped)
}

func (l *Ledger) decide(fixID string, d models.ReviewDecision) error {
	if _, ok := l.decisions[fixID]; !ok {
		return fmt.Errorf("unknown fix id %q", fixID)
	}
	l.decisions[fixID] = d
	return nil
}

// ApproveAll approves every fix still pending.
func (l *Ledger) ApproveAll() {
	for id, d := range l.decisions {
		if d == models.DecisionPending {
			l.decisions[id] = models.DecisionApproved
		}
	}
}

// RejectAll rejects every fix still pending.
func (l *Ledger) RejectAll() {
	for id, d := range l.decisions {
		if d == models.DecisionPending {
			l.decisions[id] = models.DecisionRejected
		}
	}
}

// ApproveChanged approves every pending fix that actually changes its
// file, and skips the rest.
func (l *Ledger) ApproveChanged() {
	for _, f := range l.fixes {
		if l.decisions[f.FixID] != models.DecisionPending {
			continue
		}
		if f.HasChange() {
			l.decisions[f.FixID] = models.DecisionApproved
		} else {
			l.decisions[f.FixID] = models.DecisionSkipped
		}
	}
}

// Comment attaches a note to a fix.
func (l *Ledger) Comment(fixID, comment string) error {
	if _, ok := l.decisions[fixID]; !ok {
		return fmt.Errorf("unknown fix id %q", fixID)
	}
	l.comments = append(l.comments, models.ReviewComment{
		FixID:     fixID,
		Comment:   comment,
		Timestamp: l.now(),
	})
	return nil
}

// Approved returns the approved fixes in review order.
func (l *Ledger) Approved() []models.ProposedFix {
	var out []models.ProposedFix
	for _, f := range l.fixes {
		if l.decisions[f.FixID] == models.DecisionApproved {
			out = append(out, f)
		}
	}
	return out
}

// Pending returns the fixes still awaiting a decision, in review order.
func (l *Ledger) Pending() []models.ProposedFix {
	var out []models.ProposedFix
	for _, f := range l.fixes {
		if l.decisions[f.FixID] == models.DecisionPending {
			out = append(out, f)
		}
	}
	return out
}

// Summary tallies the ledger. The per-state counts always sum to Total.
func (l *Ledger) Summary() models.ReviewSummary {
	s := models.ReviewSummary{Total: len(l.fixes)}
	for _, f := range l.fixes {
		switch l.decisions[f.FixID] {
		case models.DecisionApproved:
			s.Approved++
		case models.DecisionRejected:
			s.Rejected++
		case models.DecisionSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	return s
}

// Record exports the ledger's persisted form.
func (l *Ledger) Record() models.ReviewRecord {
	decisions := make(map[string]models.ReviewDecision, len(l.decisions))
	for id, d := range l.decisions {
		decisions[id] = d
	}
	comments := make([]models.ReviewComment, len(l.comments))
	copy(comments, l.comments)
	return models.ReviewRecord{
		SessionID: l.sessionID,
		Decisions: decisions,
		Comments:  comments,
		Summary:   l.Summary(),
	}
}
