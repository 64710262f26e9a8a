package models

// Category is a curated grouping of governance rules used to sequence
// remediation work. Categories form a fixed, versioned registry; they are
// never derived at runtime.
type Category struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Description string          `json:"description"`
	Rules       map[string]bool `json:"-"`
	Priority    int             `json:"priority"` // lower = fix first
	Effort      string          `json:"effort"`   // "Low", "Medium", "High"
}

// Owns reports whether the category claims the given rule identifier.
func (c Category) Owns(rule string) bool {
	return c.Rules[rule]
}

// Subcategory describes a single rule's metadata underneath its parent
// category. Many-to-one with Category.
type Subcategory struct {
	Name          string        `json:"name"`
	DisplayName   string        `json:"display_name"`
	Description   string        `json:"description"`
	RuleID        string        `json:"rule_id"`
	Category      string        `json:"category"`
	FixComplexity FixComplexity `json:"fix_complexity"`
	Example       string        `json:"example"`
}

// CategorySummary is the per-category slice of a triage summary.
type CategorySummary struct {
	Count       int         `json:"count"`
	Priority    int         `json:"priority"`
	Effort      string      `json:"effort"`
	DisplayName string      `json:"display_name"`
	Description string      `json:"description"`
	Violations  []Violation `json:"violations"`
}

// TriageReport is the export shape of a full triage pass.
type TriageReport struct {
	TotalViolations int                        `json:"total_violations"`
	TotalCategories int                        `json:"total_categories"`
	Categories      map[string]CategorySummary `json:"categories"`
	Order           []string                   `json:"recommended_order"`
}

// CategoryProgress tracks remediation progress for one category.
type CategoryProgress struct {
	DisplayName string  `json:"display_name"`
	Total       int     `json:"total"`
	Fixed       int     `json:"fixed"`
	Remaining   int     `json:"remaining"`
	Percentage  float64 `json:"percentage"`
	Priority    int     `json:"priority"`
	Effort      string  `json:"effort"`
}

// RuleSet builds the set representation used by Category.Rules.
func RuleSet(rules ...string) map[string]bool {
	set := make(map[string]bool, len(rules))
	for _, r := range rules {
		set[r] = true
	}
	return set
}
