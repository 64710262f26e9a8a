// Package fixer provides AI-assisted content repair for violations that
// no deterministic strategy can handle.
package fixer

import (
	"context"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// ContentFixer rewrites file content to resolve reported violations.
// Implementations return the full corrected file content; callers compare
// against the original to decide whether anything changed.
type ContentFixer interface {
	// FixFile returns corrected content for one file covering every
	// listed violation.
	FixFile(ctx context.Context, path, content string, violations []models.Violation) (string, error)
	// FixCrossFile corrects a group of related files together. The
	// returned map is keyed by the input paths; files the fixer left
	// alone may be omitted.
	FixCrossFile(ctx context.Context, files map[string]string, violations []models.Violation) (map[string]string, error)
}
