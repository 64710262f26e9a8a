package models

// CommitInfo describes one commit produced by the publisher. Each commit
// carries every approved fix for a single rule.
type CommitInfo struct {
	Hash    string   `json:"hash,omitempty"`
	RuleID  string   `json:"rule_id"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
	FixIDs  []string `json:"fix_ids"`
}

// ChangeSet is the result of publishing approved fixes.
type ChangeSet struct {
	Branch      string       `json:"branch,omitempty"`
	Commits     []CommitInfo `json:"commits"`
	Applied     []string     `json:"applied"`
	Failed      []string     `json:"failed,omitempty"`
	Description string       `json:"description,omitempty"`
}

// ChangeSummary totals a change set for console output.
type ChangeSummary struct {
	FilesChanged  int `json:"files_changed"`
	CommitCount   int `json:"commit_count"`
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	InfoCount     int `json:"info_count"`
}
