package buildloop

import (
	"context"
	"fmt"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Rescanner re-runs the governance engines against the project and
// returns the current violations.
type Rescanner func(ctx context.Context, dir string) ([]models.Violation, error)

// Filter narrows a violation set to one remediation category.
type Filter func(category string, violations []models.Violation) []models.Violation

// Loop validates one round of applied fixes.
type Loop struct {
	runner BuildRunner
	rescan Rescanner
	filter Filter
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFilter scopes the before/after comparison to the category under
// repair, so unrelated categories cannot skew the verdict.
func WithFilter(f Filter) LoopOption {
	return func(l *Loop) {
		l.filter = f
	}
}

// NewLoop creates a validation loop. Without a filter the comparison
// spans every violation.
func NewLoop(runner BuildRunner, rescan Rescanner, opts ...LoopOption) *Loop {
	l := &Loop{runner: runner, rescan: rescan}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Validate builds the project and compares violation counts. A broken
// build fails the round outright and reports counts unchanged, since the
// scan results of an uncompilable tree mean nothing. Otherwise the round
// succeeds when something was fixed (or nothing remains) and no new
// violations appeared. With a filter installed, both sides of the
// comparison are narrowed to the named category first.
func (l *Loop) Validate(ctx context.Context, dir, category string, before []models.Violation) (models.ValidationResult, error) {
	if category != "" && l.filter != nil {
		before = l.filter(category, before)
	}

	result := models.ValidationResult{
		Category:         category,
		ViolationsBefore: len(before),
	}

	build := l.runner.Build(ctx, dir)
	result.Build = build
	if !build.Success {
		result.Success = false
		result.ViolationsAfter = len(before)
		result.Message = "build failed, fixes rolled into review: violation counts unchanged"
		return result, nil
	}

	after, err := l.rescan(ctx, dir)
	if err != nil {
		return result, fmt.Errorf("rescanning after build: %w", err)
	}
	if category != "" && l.filter != nil {
		after = l.filter(category, after)
	}
	result.ViolationsAfter = len(after)

	result.Fixed = result.ViolationsBefore - result.ViolationsAfter
	if result.Fixed < 0 {
		result.Fixed = 0
	}
	result.New = result.ViolationsAfter - result.ViolationsBefore
	if result.New < 0 {
		result.New = 0
	}

	result.Success = (result.Fixed > 0 || result.ViolationsAfter == 0) && result.New == 0
	switch {
	case result.New > 0:
		result.Message = fmt.Sprintf("%d new violation(s) introduced", result.New)
	case result.Fixed > 0:
		result.Message = fmt.Sprintf("%d violation(s) fixed, %d remaining", result.Fixed, result.ViolationsAfter)
	case result.ViolationsAfter == 0:
		result.Message = "no violations remain"
	default:
		result.Message = "no violations were fixed"
	}
	return result, nil
}
