package proposer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/vraravam/api-governance-agent/internal/fixer"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

// DefaultWorkers bounds how many files are fixed concurrently.
const DefaultWorkers = 3

// Dropped is a violation no proposal could cover, with the reason.
type Dropped struct {
	Violation models.Violation `json:"violation"`
	Reason    string           `json:"reason"`
}

// Proposal is the outcome of one propose pass.
type Proposal struct {
	Fixes   []models.ProposedFix `json:"fixes"`
	Dropped []Dropped            `json:"dropped,omitempty"`
}

// Coordinator fans violations out per file, applies deterministic
// strategies first, and falls back to the AI fixer for the rest. Each
// file yields at most one consolidated fix.
type Coordinator struct {
	root       string
	registry   *Registry
	aiFixer    fixer.ContentFixer
	workers    int
	skipDeterm bool
	progress   ProgressFunc
}

// ProgressFunc observes per-file completion during a propose pass. The
// coordinator serializes calls, so implementations need no locking.
type ProgressFunc func(path string, done, total int)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers sets the concurrency bound. Values below 1 fall back to
// the default.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithRegistry replaces the deterministic strategy registry.
func WithRegistry(r *Registry) Option {
	return func(c *Coordinator) {
		c.registry = r
	}
}

// WithFixer sets the AI fallback. Without one, violations no strategy
// covers are dropped.
func WithFixer(f fixer.ContentFixer) Option {
	return func(c *Coordinator) {
		c.aiFixer = f
	}
}

// WithProgress installs a completion observer, called once per file
// task as it finishes.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Coordinator) {
		c.progress = fn
	}
}

// WithoutDeterministic routes every violation straight to the AI fixer.
func WithoutDeterministic() Option {
	return func(c *Coordinator) {
		c.skipDeterm = true
	}
}

// New creates a Coordinator rooted at the project directory.
func New(root string, opts ...Option) *Coordinator {
	c := &Coordinator{
		root:     root,
		registry: DefaultRegistry(),
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fileResult struct {
	path         string
	original     string
	fixed        string
	explanations []string
	violations   []models.Violation
	strategy     models.StrategyInfo
	usedAI       bool
	dropped      []Dropped
	err          error
}

// Propose generates at most one consolidated fix per file. Files are
// processed concurrently under the worker bound; fix ids are assigned
// afterwards in ascending file path order so output is deterministic.
func (c *Coordinator) Propose(ctx context.Context, violations []models.Violation) (*Proposal, error) {
	byFile, unlocated := c.locate(violations)

	paths := make([]string, 0, len(byFile))
	for p := range byFile {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var mu sync.Mutex
	done := 0
	notify := func(path string) {
		if c.progress == nil {
			return
		}
		mu.Lock()
		done++
		c.progress(path, done, len(paths))
		mu.Unlock()
	}

	results := make([]fileResult, len(paths))
	p := pool.New().WithMaxGoroutines(c.workers)
	for i, path := range paths {
		p.Go(func() {
			results[i] = c.fixFile(ctx, path, byFile[path])
			notify(path)
		})
	}
	p.Wait()

	proposal := &Proposal{Dropped: unlocated}
	seq := 0
	for _, res := range results {
		if res.err != nil {
			for _, v := range res.violations {
				proposal.Dropped = append(proposal.Dropped, Dropped{Violation: v, Reason: res.err.Error()})
			}
			continue
		}
		proposal.Dropped = append(proposal.Dropped, res.dropped...)

		if res.fixed == res.original {
			for _, v := range res.violations {
				proposal.Dropped = append(proposal.Dropped, Dropped{Violation: v, Reason: "proposed content is unchanged"})
			}
			continue
		}

		seq++
		id := fmt.Sprintf("fix-%04d", seq)
		if res.usedAI {
			id += "-batch"
		}
		ruleID := res.strategy.RuleID
		if ruleID == "" && len(res.violations) > 0 {
			ruleID = res.violations[0].Rule
		}
		proposal.Fixes = append(proposal.Fixes, models.ProposedFix{
			FixID:           id,
			RuleID:          ruleID,
			FilePath:        res.path,
			OriginalContent: res.original,
			ProposedContent: res.fixed,
			Explanation:     strings.Join(res.explanations, "; "),
			Strategy:        res.strategy,
			Violations:      res.violations,
		})
	}
	return proposal, nil
}

// fixFile resolves one file's violations: deterministic strategies run
// sequentially over the evolving content, then everything left goes to
// the AI fixer in a single batch.
func (c *Coordinator) fixFile(ctx context.Context, path string, violations []models.Violation) fileResult {
	res := fileResult{path: path, violations: violations}

	data, err := os.ReadFile(filepath.Join(c.root, path))
	if err != nil {
		res.err = fmt.Errorf("reading %s: %w", path, err)
		return res
	}
	res.original = string(data)
	content := res.original

	var remaining []models.Violation
	byStrategy := make(map[Strategy][]models.Violation)
	var order []Strategy

	for _, v := range violations {
		if c.skipDeterm {
			remaining = append(remaining, v)
			continue
		}
		s, ok := c.registry.For(v.Rule)
		if !ok {
			remaining = append(remaining, v)
			continue
		}
		if _, seen := byStrategy[s]; !seen {
			order = append(order, s)
		}
		byStrategy[s] = append(byStrategy[s], v)
	}

	for _, s := range order {
		vs := byStrategy[s]
		fixed, err := s.Apply(path, content, vs)
		if err != nil {
			// A failed strategy demotes its violations to the AI batch.
			remaining = append(remaining, vs...)
			continue
		}
		content = fixed
		info := s.Info()
		if res.strategy.RuleID == "" {
			res.strategy = info
		}
		res.explanations = append(res.explanations, info.Description)
	}

	if len(remaining) > 0 {
		if c.aiFixer == nil {
			for _, v := range remaining {
				res.dropped = append(res.dropped, Dropped{Violation: v, Reason: "no deterministic strategy and no AI fixer configured"})
			}
		} else {
			fixed, err := c.aiFixer.FixFile(ctx, path, content, remaining)
			if err != nil {
				// AI failures drop the batch but keep deterministic work.
				for _, v := range remaining {
					res.dropped = append(res.dropped, Dropped{Violation: v, Reason: err.Error()})
				}
			} else {
				content = fixed
				res.usedAI = true
				res.explanations = append(res.explanations, fmt.Sprintf("AI batch fix for %d violation(s)", len(remaining)))
				if res.strategy.RuleID == "" {
					res.strategy = models.StrategyInfo{
						RuleID:      remaining[0].Rule,
						Description: "AI batch fix",
						Complexity:  models.ComplexityModerate,
						Safety:      models.SafetyReview,
					}
				}
			}
		}
	}

	res.fixed = content
	return res
}

// locate groups violations by resolvable file path. ArchUnit findings
// often carry only a class reference in the message; those are mapped to
// the conventional Maven source layout.
func (c *Coordinator) locate(violations []models.Violation) (map[string][]models.Violation, []Dropped) {
	byFile := make(map[string][]models.Violation)
	var dropped []Dropped
	for _, v := range violations {
		path := c.resolvePath(v)
		if path == "" {
			dropped = append(dropped, Dropped{Violation: v, Reason: "no file path could be resolved"})
			continue
		}
		byFile[path] = append(byFile[path], v)
	}
	return byFile, dropped
}

var classRefRe = regexp.MustCompile(`<([A-Za-z_][\w.]*\.[A-Z]\w*)>`)

func (c *Coordinator) resolvePath(v models.Violation) string {
	if v.File != "" {
		if p := c.normalizeFile(v.File); p != "" {
			return p
		}
	}
	if m := classRefRe.FindStringSubmatch(v.Message); m != nil {
		if p := javaSourcePath(m[1]); c.exists(p) {
			return p
		}
	}
	return ""
}

// normalizeFile maps a report file reference onto a path under root.
// Class names become Maven source paths; plain paths pass through when
// they exist.
func (c *Coordinator) normalizeFile(file string) string {
	if strings.Contains(file, ".") && !strings.ContainsAny(file, "/\\") &&
		!strings.HasSuffix(file, ".yaml") && !strings.HasSuffix(file, ".yml") &&
		!strings.HasSuffix(file, ".json") {
		if p := javaSourcePath(file); c.exists(p) {
			return p
		}
		return ""
	}
	if c.exists(file) {
		return file
	}
	return ""
}

func (c *Coordinator) exists(rel string) bool {
	if rel == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(c.root, rel))
	return err == nil
}

// javaSourcePath converts a fully qualified class name to its expected
// location in the standard Maven layout. Nested classes map to their
// enclosing file.
func javaSourcePath(class string) string {
	if i := strings.Index(class, "$"); i >= 0 {
		class = class[:i]
	}
	return filepath.Join("src", "main", "java", strings.ReplaceAll(class, ".", string(filepath.Separator))+".java")
}
