package models

// FileDiff is the read-only audit view over a ProposedFix: the unified
// diff, change counts, and a severity derived from the rule taxonomy.
// 1:1 with ProposedFix.
type FileDiff struct {
	FixID       string   `json:"fix_id"`
	FilePath    string   `json:"file_path"`
	RuleID      string   `json:"rule_id"`
	UnifiedDiff string   `json:"unified_diff"`
	Additions   int      `json:"additions"`
	Deletions   int      `json:"deletions"`
	Severity    Severity `json:"severity"`
	Explanation string   `json:"explanation"`
}

// DiffSummary aggregates change counts across a set of diffs.
type DiffSummary struct {
	TotalFiles     int `json:"total_files"`
	TotalAdditions int `json:"total_additions"`
	TotalDeletions int `json:"total_deletions"`
	CriticalCount  int `json:"critical_count"`
	WarningCount   int `json:"warning_count"`
	InfoCount      int `json:"info_count"`
}
