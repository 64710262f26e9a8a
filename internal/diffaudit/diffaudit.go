// Package diffaudit renders proposed fixes as unified diffs and computes
// the change statistics shown during review.
package diffaudit

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Auditor turns proposed fixes into reviewable diffs.
type Auditor struct {
	contextLines int
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithContextLines sets the number of unchanged lines shown around each
// hunk. Default is 3.
func WithContextLines(n int) Option {
	return func(a *Auditor) {
		a.contextLines = n
	}
}

// New creates an Auditor.
func New(opts ...Option) *Auditor {
	a := &Auditor{contextLines: 3}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit renders one fix as a FileDiff.
func (a *Auditor) Audit(fix models.ProposedFix) (models.FileDiff, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(fix.OriginalContent),
		B:        difflib.SplitLines(fix.ProposedContent),
		FromFile: fmt.Sprintf("a/%s", fix.FilePath),
		ToFile:   fmt.Sprintf("b/%s", fix.FilePath),
		Context:  a.contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return models.FileDiff{}, fmt.Errorf("rendering diff for %s: %w", fix.FilePath, err)
	}

	additions, deletions := countChanges(text)
	return models.FileDiff{
		FixID:       fix.FixID,
		FilePath:    fix.FilePath,
		RuleID:      fix.RuleID,
		UnifiedDiff: text,
		Additions:   additions,
		Deletions:   deletions,
		Severity:    SeverityForRule(fix.RuleID),
		Explanation: fix.Explanation,
	}, nil
}

// AuditAll renders every fix, preserving input order.
func (a *Auditor) AuditAll(fixes []models.ProposedFix) ([]models.FileDiff, error) {
	diffs := make([]models.FileDiff, 0, len(fixes))
	for _, fix := range fixes {
		d, err := a.Audit(fix)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

// Summarize aggregates change counts over a set of diffs.
func Summarize(diffs []models.FileDiff) models.DiffSummary {
	var s models.DiffSummary
	s.TotalFiles = len(diffs)
	for _, d := range diffs {
		s.TotalAdditions += d.Additions
		s.TotalDeletions += d.Deletions
		switch d.Severity {
		case models.SeverityCritical:
			s.CriticalCount++
		case models.SeverityWarning:
			s.WarningCount++
		default:
			s.InfoCount++
		}
	}
	return s
}

// SeverityForRule derives review severity from the rule family. Rules
// touching security or structural dependencies demand the closest look.
func SeverityForRule(rule string) models.Severity {
	switch {
	case strings.HasPrefix(rule, "security-"),
		strings.HasPrefix(rule, "dependency-"),
		strings.HasPrefix(rule, "architecture-"),
		strings.HasPrefix(rule, "arch-"),
		strings.HasPrefix(rule, "no-hardcoded-"),
		strings.HasPrefix(rule, "no-api-keys"),
		strings.HasPrefix(rule, "require-authentication"):
		return models.SeverityCritical
	case strings.HasPrefix(rule, "coding-"),
		strings.HasPrefix(rule, "naming-"),
		strings.HasPrefix(rule, "annotation-"):
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// countChanges counts added and removed lines in a unified diff, skipping
// the file headers.
func countChanges(diff string) (additions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}
