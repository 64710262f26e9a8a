package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFixSafety(t *testing.T) {
	assert.Equal(t, SafetyAuto, ParseFixSafety("safe"))
	assert.Equal(t, SafetyReview, ParseFixSafety("review_required"))
	assert.Equal(t, SafetyReview, ParseFixSafety("manual_only"))
	assert.Equal(t, SafetyReview, ParseFixSafety("anything else"))
}

func TestProposedFixHasChange(t *testing.T) {
	fix := ProposedFix{OriginalContent: "a", ProposedContent: "a"}
	assert.False(t, fix.HasChange())
	fix.ProposedContent = "b"
	assert.True(t, fix.HasChange())
}

func TestProposedFixRules(t *testing.T) {
	fix := ProposedFix{Violations: []Violation{
		{Rule: "no-sysout"},
		{Rule: "proper-logging"},
		{Rule: "no-sysout"},
	}}
	assert.Equal(t, []string{"no-sysout", "proper-logging"}, fix.Rules())
}

func TestReviewSummaryInvariant(t *testing.T) {
	s := ReviewSummary{Total: 5, Pending: 2, Approved: 1, Rejected: 1, Skipped: 1}
	assert.Equal(t, s.Total, s.Pending+s.Approved+s.Rejected+s.Skipped)
}
