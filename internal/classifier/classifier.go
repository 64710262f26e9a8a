// Package classifier assigns governance violations to remediation
// categories and produces triage summaries ordered by fix priority.
package classifier

import (
	"sort"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

const catchAll = "OTHER"

// Classifier maps violations onto the category registry. Classification
// is total: every violation lands in exactly one category, with OTHER as
// the catch-all.
type Classifier struct {
	categories    []models.Category
	subcategories []models.Subcategory
	byName        map[string]models.Category
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRegistry replaces the built-in category registry.
func WithRegistry(categories []models.Category) Option {
	return func(c *Classifier) {
		c.categories = categories
	}
}

// WithSubcategories replaces the built-in subcategory detail.
func WithSubcategories(subs []models.Subcategory) Option {
	return func(c *Classifier) {
		c.subcategories = subs
	}
}

// New creates a Classifier with the default registry unless overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		categories:    DefaultRegistry(),
		subcategories: DefaultSubcategories(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.byName = make(map[string]models.Category, len(c.categories))
	for _, cat := range c.categories {
		c.byName[cat.Name] = cat
	}
	return c
}

// Categorize returns the name of the category owning the violation's
// rule, or OTHER when no category claims it.
func (c *Classifier) Categorize(v models.Violation) string {
	for _, cat := range c.categories {
		if cat.Owns(v.Rule) {
			return cat.Name
		}
	}
	return catchAll
}

// Partition splits violations into per-category buckets. Input order is
// preserved within each bucket.
func (c *Classifier) Partition(violations []models.Violation) map[string][]models.Violation {
	buckets := make(map[string][]models.Violation)
	for _, v := range violations {
		name := c.Categorize(v)
		buckets[name] = append(buckets[name], v)
	}
	return buckets
}

// Summarize builds a triage report over the violations, with categories
// ordered by ascending priority. Empty categories are omitted.
func (c *Classifier) Summarize(violations []models.Violation) models.TriageReport {
	buckets := c.Partition(violations)

	report := models.TriageReport{
		TotalViolations: len(violations),
		Categories:      make(map[string]models.CategorySummary, len(buckets)),
	}

	ordered := make([]models.Category, 0, len(buckets))
	for name := range buckets {
		if cat, ok := c.byName[name]; ok {
			ordered = append(ordered, cat)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	for _, cat := range ordered {
		vs := buckets[cat.Name]
		report.Categories[cat.Name] = models.CategorySummary{
			Count:       len(vs),
			Priority:    cat.Priority,
			Effort:      cat.Effort,
			DisplayName: cat.DisplayName,
			Description: cat.Description,
			Violations:  vs,
		}
		report.Order = append(report.Order, cat.Name)
	}
	report.TotalCategories = len(report.Order)
	return report
}

// NextCategory returns the highest-priority category still holding
// violations whose rules are not in the fixed set, along with those
// remaining violations. Matching is by rule identifier, not violation
// identity. An empty category name means everything is resolved.
func (c *Classifier) NextCategory(all, fixed []models.Violation) (string, []models.Violation) {
	fixedRules := make(map[string]bool, len(fixed))
	for _, v := range fixed {
		fixedRules[v.Rule] = true
	}

	remaining := make([]models.Violation, 0, len(all))
	for _, v := range all {
		if !fixedRules[v.Rule] {
			remaining = append(remaining, v)
		}
	}

	report := c.Summarize(remaining)
	if len(report.Order) == 0 {
		return "", nil
	}
	name := report.Order[0]
	return name, report.Categories[name].Violations
}

// Progress computes per-category remediation progress given the
// violations before and after a fix round.
func (c *Classifier) Progress(before, after []models.Violation) map[string]models.CategoryProgress {
	beforeBuckets := c.Partition(before)
	afterBuckets := c.Partition(after)

	progress := make(map[string]models.CategoryProgress, len(beforeBuckets))
	for name, vs := range beforeBuckets {
		cat := c.byName[name]
		total := len(vs)
		remaining := len(afterBuckets[name])
		fixed := total - remaining
		if fixed < 0 {
			fixed = 0
		}
		pct := 0.0
		if total > 0 {
			pct = float64(fixed) / float64(total) * 100
		}
		progress[name] = models.CategoryProgress{
			DisplayName: cat.DisplayName,
			Total:       total,
			Fixed:       fixed,
			Remaining:   remaining,
			Percentage:  pct,
			Priority:    cat.Priority,
			Effort:      cat.Effort,
		}
	}
	return progress
}

// Subcategory returns rule-level detail for the given rule identifier.
func (c *Classifier) Subcategory(rule string) (models.Subcategory, bool) {
	for _, sub := range c.subcategories {
		if sub.RuleID == rule {
			return sub, true
		}
	}
	return models.Subcategory{}, false
}

// Categories exposes the registry in priority order.
func (c *Classifier) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
