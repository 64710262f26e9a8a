package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// TriageTable renders a triage report as a priority-ordered table.
func TriageTable(report models.TriageReport) *Table {
	rows := make([][]string, 0, len(report.Order))
	for _, name := range report.Order {
		cat := report.Categories[name]
		rows = append(rows, []string{
			strconv.Itoa(cat.Priority),
			cat.DisplayName,
			strconv.Itoa(cat.Count),
			cat.Effort,
			cat.Description,
		})
	}
	return NewTable(
		fmt.Sprintf("Triage: %d violations in %d categories", report.TotalViolations, report.TotalCategories),
		[]string{"Priority", "Category", "Count", "Effort", "Description"},
		rows,
		nil,
		report,
	)
}

// RuleDetailTable renders per-rule metadata for the rules present in a
// triage report, using the lookup to resolve subcategory detail.
func RuleDetailTable(report models.TriageReport, lookup func(rule string) (models.Subcategory, bool)) *Table {
	counts := make(map[string]int)
	var order []string
	for _, name := range report.Order {
		for _, v := range report.Categories[name].Violations {
			if counts[v.Rule] == 0 {
				order = append(order, v.Rule)
			}
			counts[v.Rule]++
		}
	}

	rows := make([][]string, 0, len(order))
	for _, rule := range order {
		display, category, complexity := rule, "-", "-"
		if sub, ok := lookup(rule); ok {
			display = sub.DisplayName
			category = sub.Category
			complexity = string(sub.FixComplexity)
		}
		rows = append(rows, []string{
			rule,
			strconv.Itoa(counts[rule]),
			category,
			complexity,
			display,
		})
	}
	return NewTable("Rule detail", []string{"Rule", "Count", "Category", "Complexity", "Name"}, rows, nil, rows)
}

// ProposalTable renders proposed fixes with their strategy and safety.
func ProposalTable(proposal []models.ProposedFix) *Table {
	rows := make([][]string, 0, len(proposal))
	for _, f := range proposal {
		rows = append(rows, []string{
			f.FixID,
			f.FilePath,
			strings.Join(f.Rules(), ", "),
			string(f.Strategy.Safety),
			f.Explanation,
		})
	}
	return NewTable(
		fmt.Sprintf("%d proposed fix(es)", len(proposal)),
		[]string{"Fix", "File", "Rules", "Safety", "Explanation"},
		rows,
		nil,
		proposal,
	)
}

// DiffSummaryTable renders audit totals for a set of diffs.
func DiffSummaryTable(diffs []models.FileDiff, summary models.DiffSummary) *Table {
	rows := make([][]string, 0, len(diffs))
	for _, d := range diffs {
		rows = append(rows, []string{
			d.FixID,
			d.FilePath,
			fmt.Sprintf("+%d", d.Additions),
			fmt.Sprintf("-%d", d.Deletions),
			string(d.Severity),
		})
	}
	footer := []string{
		"",
		fmt.Sprintf("%d files", summary.TotalFiles),
		fmt.Sprintf("+%d", summary.TotalAdditions),
		fmt.Sprintf("-%d", summary.TotalDeletions),
		fmt.Sprintf("%dc/%dw/%di", summary.CriticalCount, summary.WarningCount, summary.InfoCount),
	}
	return NewTable("Change audit", []string{"Fix", "File", "Added", "Removed", "Severity"}, rows, footer, diffs)
}

// SyncTable renders the spec/implementation consistency report.
func SyncTable(report models.SyncReport) *Report {
	rows := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		rows = append(rows, []string{
			e.SpecFile,
			e.CodeFile,
			string(e.Status),
			strconv.Itoa(len(e.SpecViolations)),
			strconv.Itoa(len(e.CodeViolations)),
		})
	}
	s := report.Summary
	table := NewTable("", []string{"Spec Artifact", "Code Artifact", "Status", "Spec Hits", "Code Hits"}, rows,
		[]string{"", "", fmt.Sprintf("%d in sync / %d drifted", s.InSync, s.Total-s.InSync), "", ""}, nil)

	sections := []Renderable{table}
	if len(report.Recommendations) > 0 {
		sections = append(sections, &Section{
			Title:   "Recommendations",
			Content: "- " + strings.Join(report.Recommendations, "\n- "),
		})
	}
	return &Report{
		Title:    "Specification / implementation sync",
		Sections: sections,
		Data:     report,
	}
}

// ValidationSection renders a validation round result.
func ValidationSection(res models.ValidationResult) *Section {
	status := "FAILED"
	if res.Success {
		status = "PASSED"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", status)
	if res.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", res.Category)
	}
	fmt.Fprintf(&b, "Violations: %d before, %d after (%d fixed, %d new)\n",
		res.ViolationsBefore, res.ViolationsAfter, res.Fixed, res.New)
	fmt.Fprintf(&b, "Build: %s in %s", res.Build.BuildTool, res.Build.Duration.Round(time.Millisecond))
	if !res.Build.Success {
		fmt.Fprintf(&b, " (failed: %s)", res.Build.Error)
	}
	if res.Message != "" {
		fmt.Fprintf(&b, "\n%s", res.Message)
	}
	return &Section{
		Title:   "Validation",
		Content: b.String(),
		Data:    res,
	}
}

// ChangeSetTable renders a published change set, one row per commit.
func ChangeSetTable(cs models.ChangeSet, summary models.ChangeSummary) *Table {
	rows := make([][]string, 0, len(cs.Commits))
	for _, c := range cs.Commits {
		hash := c.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		rows = append(rows, []string{
			c.RuleID,
			strconv.Itoa(len(c.Files)),
			strconv.Itoa(len(c.FixIDs)),
			hash,
		})
	}
	title := fmt.Sprintf("%d commit(s), %d file(s) changed", summary.CommitCount, summary.FilesChanged)
	if cs.Branch != "" {
		title += " on " + cs.Branch
	}
	var footer []string
	if len(cs.Failed) > 0 {
		footer = []string{fmt.Sprintf("%d failed", len(cs.Failed)), "", "", ""}
	}
	return NewTable(title, []string{"Rule", "Files", "Fixes", "Commit"}, rows, footer, cs)
}

// ProgressTable renders per-category remediation progress.
func ProgressTable(progress map[string]models.CategoryProgress, order []string) *Table {
	rows := make([][]string, 0, len(order))
	for _, name := range order {
		p, ok := progress[name]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			p.DisplayName,
			strconv.Itoa(p.Fixed),
			strconv.Itoa(p.Remaining),
			fmt.Sprintf("%.0f%%", p.Percentage),
		})
	}
	return NewTable("Remediation progress", []string{"Category", "Fixed", "Remaining", "Done"}, rows, nil, progress)
}
