// Package publish applies approved fixes to the working tree and turns
// them into a reviewable branch with one commit per rule.
package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vraravam/api-governance-agent/internal/diffaudit"
	"github.com/vraravam/api-governance-agent/internal/vcs"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

// DefaultBranchPrefix prefixes generated branch names.
const DefaultBranchPrefix = "governance/auto-fix"

// Publisher writes approved fixes to disk and commits them grouped by
// rule. Without version control it degrades to plain file writes.
type Publisher struct {
	root         string
	vc           vcs.VersionControl
	branchPrefix string
	now          func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithVersionControl enables branch and commit creation.
func WithVersionControl(vc vcs.VersionControl) Option {
	return func(p *Publisher) {
		p.vc = vc
	}
}

// WithBranchPrefix overrides the generated branch prefix.
func WithBranchPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix != "" {
			p.branchPrefix = prefix
		}
	}
}

// WithClock overrides the timestamp source for branch names.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// New creates a Publisher rooted at the project directory.
func New(root string, opts ...Option) *Publisher {
	p := &Publisher{
		root:         root,
		branchPrefix: DefaultBranchPrefix,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish applies every approved fix and commits per rule group, in
// ascending rule order. A group that fails to apply is recorded and
// skipped; the remaining groups still publish.
func (p *Publisher) Publish(fixes []models.ProposedFix) (*models.ChangeSet, error) {
	cs := &models.ChangeSet{}
	if len(fixes) == 0 {
		return cs, nil
	}

	if p.vc != nil {
		branch := fmt.Sprintf("%s-%s", p.branchPrefix, p.now().Format("20060102-150405"))
		name, err := p.vc.CreateBranch(branch)
		if err != nil {
			return nil, fmt.Errorf("creating branch: %w", err)
		}
		cs.Branch = name
	}

	groups := groupByRule(fixes)
	rules := make([]string, 0, len(groups))
	for rule := range groups {
		rules = append(rules, rule)
	}
	sort.Strings(rules)

	for _, rule := range rules {
		group := groups[rule]
		files, fixIDs, err := p.applyGroup(group)
		if err != nil {
			for _, f := range group {
				cs.Failed = append(cs.Failed, f.FixID)
			}
			continue
		}
		cs.Applied = append(cs.Applied, fixIDs...)

		commit := models.CommitInfo{
			RuleID:  rule,
			Message: commitMessage(rule, group),
			Files:   files,
			FixIDs:  fixIDs,
		}
		if p.vc != nil {
			hash, err := p.vc.StageAndCommit(files, commit.Message)
			if err != nil {
				cs.Failed = append(cs.Failed, fixIDs...)
				cs.Applied = cs.Applied[:len(cs.Applied)-len(fixIDs)]
				continue
			}
			commit.Hash = hash
		}
		cs.Commits = append(cs.Commits, commit)
	}

	cs.Description = describe(cs, fixes)
	return cs, nil
}

// applyGroup writes one rule group's files, including related changes.
func (p *Publisher) applyGroup(group []models.ProposedFix) ([]string, []string, error) {
	var files, fixIDs []string
	for _, fix := range group {
		if err := p.writeFile(fix.FilePath, fix.ProposedContent); err != nil {
			return nil, nil, err
		}
		files = append(files, fix.FilePath)
		for _, rc := range fix.RelatedChanges {
			if err := p.writeFile(rc.Path, rc.Content); err != nil {
				return nil, nil, err
			}
			files = append(files, rc.Path)
		}
		fixIDs = append(fixIDs, fix.FixID)
	}
	return files, fixIDs, nil
}

func (p *Publisher) writeFile(rel, content string) error {
	full := filepath.Join(p.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// groupByRule buckets fixes by their primary rule.
func groupByRule(fixes []models.ProposedFix) map[string][]models.ProposedFix {
	groups := make(map[string][]models.ProposedFix)
	for _, f := range fixes {
		groups[f.RuleID] = append(groups[f.RuleID], f)
	}
	return groups
}

func commitMessage(rule string, group []models.ProposedFix) string {
	noun := "violation"
	count := 0
	for _, f := range group {
		count += len(f.Violations)
	}
	if count == 0 {
		count = len(group)
	}
	if count != 1 {
		noun += "s"
	}
	return fmt.Sprintf("fix(%s): resolve %d %s\n\nApplied by the governance auto-fix pipeline.", rule, count, noun)
}

// describe renders the change set summary attached to the review branch.
func describe(cs *models.ChangeSet, fixes []models.ProposedFix) string {
	applied := make(map[string]bool, len(cs.Applied))
	for _, id := range cs.Applied {
		applied[id] = true
	}

	var critical, warning, info int
	var b strings.Builder
	b.WriteString("## Automated governance fixes\n\n")

	b.WriteString("| Rule | File | Explanation |\n|------|------|-------------|\n")
	for _, f := range fixes {
		if !applied[f.FixID] {
			continue
		}
		switch diffaudit.SeverityForRule(f.RuleID) {
		case models.SeverityCritical:
			critical++
		case models.SeverityWarning:
			warning++
		default:
			info++
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", f.RuleID, f.FilePath, f.Explanation)
	}

	fmt.Fprintf(&b, "\n%d commit(s), %d file change(s): %d critical, %d warning, %d info.\n",
		len(cs.Commits), len(cs.Applied), critical, warning, info)
	if len(cs.Failed) > 0 {
		fmt.Fprintf(&b, "\n%d fix(es) failed to apply: %s\n", len(cs.Failed), strings.Join(cs.Failed, ", "))
	}
	return b.String()
}

// Summarize totals an applied change set for console output.
func Summarize(cs *models.ChangeSet, fixes []models.ProposedFix) models.ChangeSummary {
	applied := make(map[string]bool, len(cs.Applied))
	for _, id := range cs.Applied {
		applied[id] = true
	}
	var s models.ChangeSummary
	s.CommitCount = len(cs.Commits)
	for _, f := range fixes {
		if !applied[f.FixID] {
			continue
		}
		s.FilesChanged++
		switch diffaudit.SeverityForRule(f.RuleID) {
		case models.SeverityCritical:
			s.CriticalCount++
		case models.SeverityWarning:
			s.WarningCount++
		default:
			s.InfoCount++
		}
	}
	return s
}
