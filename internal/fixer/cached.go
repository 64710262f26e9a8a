package fixer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vraravam/api-governance-agent/internal/cache"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

// CachedFixer wraps a ContentFixer with a disk cache so repeated runs over
// unchanged files skip the model call. Entries are keyed by path and rule
// set and validated against the current file content hash, so any edit to
// the file invalidates its cached fix.
type CachedFixer struct {
	inner ContentFixer
	cache *cache.Cache
}

// NewCached returns a fixer that consults c before delegating to inner.
func NewCached(inner ContentFixer, c *cache.Cache) *CachedFixer {
	return &CachedFixer{inner: inner, cache: c}
}

func (f *CachedFixer) FixFile(ctx context.Context, path, content string, violations []models.Violation) (string, error) {
	key := cacheKey(path, violations)
	hash := cache.HashBytes([]byte(content))

	if data, ok := f.cache.Get(key, hash); ok {
		return string(data), nil
	}

	fixed, err := f.inner.FixFile(ctx, path, content, violations)
	if err != nil {
		return "", err
	}
	if err := f.cache.Set(key, hash, []byte(fixed)); err != nil {
		return "", fmt.Errorf("caching fix for %s: %w", path, err)
	}
	return fixed, nil
}

// FixCrossFile is not cached. Cross-file fixes depend on the combined state
// of every file in the group, so a single-path key cannot validate them.
func (f *CachedFixer) FixCrossFile(ctx context.Context, files map[string]string, violations []models.Violation) (map[string]string, error) {
	return f.inner.FixCrossFile(ctx, files, violations)
}

// cacheKey folds the rule IDs into the key so the same file fixed for a
// different violation set does not collide.
func cacheKey(path string, violations []models.Violation) string {
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.Rule)
	}
	sort.Strings(rules)
	return path + "|" + strings.Join(rules, ",")
}
