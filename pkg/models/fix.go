package models

// FixComplexity classifies how invasive a fix is.
type FixComplexity string

const (
	ComplexitySimple   FixComplexity = "simple"   // single-line change
	ComplexityModerate FixComplexity = "moderate" // multi-line, single file
	ComplexityComplex  FixComplexity = "complex"  // multi-file or structural
)

// FixSafety classifies whether a fix may be applied without review.
// The source taxonomy carried a third "manual_only" tier whose semantics
// overlapped review_required; it is parsed as an alias of SafetyReview.
type FixSafety string

const (
	SafetyAuto   FixSafety = "safe"
	SafetyReview FixSafety = "review_required"
)

// ParseFixSafety maps taxonomy strings onto the two-valued enum, folding
// the deprecated manual_only tier into SafetyReview.
func ParseFixSafety(s string) FixSafety {
	switch s {
	case "safe":
		return SafetyAuto
	case "manual_only", "review_required":
		return SafetyReview
	default:
		return SafetyReview
	}
}

// StrategyInfo is the metadata a fix strategy attaches to its proposals.
type StrategyInfo struct {
	RuleID      string        `json:"rule_id"`
	Description string        `json:"description"`
	Complexity  FixComplexity `json:"complexity"`
	Safety      FixSafety     `json:"safety"`
	Explanation string        `json:"explanation"`
}

// RelatedChange is a secondary edit in another file that accompanies a
// proposed fix (e.g. a controller updated alongside its OpenAPI spec).
type RelatedChange struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ProposedFix is a candidate replacement for a file's content intended to
// resolve one or more violations. A fix whose proposed content equals its
// original content is not a fix and must never be emitted.
type ProposedFix struct {
	FixID           string          `json:"fix_id"`
	RuleID          string          `json:"rule_id"`
	FilePath        string          `json:"file_path"`
	Line            int             `json:"line,omitempty"`
	OriginalContent string          `json:"original_content"`
	ProposedContent string          `json:"proposed_content"`
	Explanation     string          `json:"explanation"`
	Strategy        StrategyInfo    `json:"strategy"`
	Violations      []Violation     `json:"violations,omitempty"`
	RelatedChanges  []RelatedChange `json:"related_changes,omitempty"`
}

// HasChange reports whether the fix actually changes the file.
func (f ProposedFix) HasChange() bool {
	return f.ProposedContent != f.OriginalContent
}

// Rules returns the distinct rule identifiers addressed by this fix, in
// first-seen order.
func (f ProposedFix) Rules() []string {
	seen := make(map[string]bool)
	var rules []string
	for _, v := range f.Violations {
		if v.Rule == "" || seen[v.Rule] {
			continue
		}
		seen[v.Rule] = true
		rules = append(rules, v.Rule)
	}
	if len(rules) == 0 && f.RuleID != "" {
		rules = append(rules, f.RuleID)
	}
	return rules
}
