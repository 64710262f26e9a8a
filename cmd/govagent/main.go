package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/vraravam/api-governance-agent/internal/cache"
	"github.com/vraravam/api-governance-agent/internal/diffaudit"
	"github.com/vraravam/api-governance-agent/internal/engine"
	"github.com/vraravam/api-governance-agent/internal/fixer"
	"github.com/vraravam/api-governance-agent/internal/output"
	"github.com/vraravam/api-governance-agent/internal/progress"
	"github.com/vraravam/api-governance-agent/internal/proposer"
	"github.com/vraravam/api-governance-agent/internal/publish"
	"github.com/vraravam/api-governance-agent/internal/review"
	"github.com/vraravam/api-governance-agent/internal/scanner"
	"github.com/vraravam/api-governance-agent/internal/vcs"
	"github.com/vraravam/api-governance-agent/pkg/config"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getRoot returns the project root from positional args, defaulting to ".".
func getRoot(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func main() {
	app := &cli.App{
		Name:    "govagent",
		Usage:   "API governance violation triage and auto-fix",
		Version: version,
		Description: `Govagent reads violation reports from API governance engines
(Spectral for the OpenAPI specification, ArchUnit for the implementation),
triages them into prioritized categories, proposes fixes deterministically or
with AI assistance, and publishes approved fixes as a reviewable branch.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"GOVAGENT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "spec-report",
				Usage: "Path to the specification violation report",
			},
			&cli.StringFlag{
				Name:  "code-report",
				Usage: "Path to the implementation violation report",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			triageCmd(),
			proposeCmd(),
			reviewCmd(),
			applyCmd(),
			syncCmd(),
			validateCmd(),
			fixCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}
	if p := c.String("spec-report"); p != "" {
		cfg.Triage.SpecReport = p
	}
	if p := c.String("code-report"); p != "" {
		cfg.Triage.CodeReport = p
	}
	return cfg, nil
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), !c.Bool("no-color"))
}

// newAIFixer builds the Anthropic fallback when a key is configured.
// Without one the pipeline runs deterministic-only.
func newAIFixer(c *cli.Context, cfg *config.Config, root string) fixer.ContentFixer {
	if c.Bool("no-ai") {
		return nil
	}
	key := cfg.Fixer.APIKey()
	if key == "" {
		if c.Bool("verbose") {
			color.Yellow("%s is not set, AI-assisted fixes disabled", cfg.Fixer.APIKeyEnv)
		}
		return nil
	}
	f, err := fixer.NewAnthropic(fixer.Config{
		APIKey:    key,
		Model:     cfg.Fixer.Model,
		MaxTokens: cfg.Fixer.MaxTokens,
	})
	if err != nil {
		color.Yellow("AI fixer unavailable: %v", err)
		return nil
	}
	return wrapFixerCache(cfg, root, f)
}

// wrapFixerCache adds the on-disk response cache around the AI backend so
// reruns over unchanged files skip the model call.
func wrapFixerCache(cfg *config.Config, root string, f fixer.ContentFixer) fixer.ContentFixer {
	dir := cfg.Cache.Dir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	c, err := cache.New(dir, cfg.Cache.TTL(), cfg.Cache.Enabled)
	if err != nil {
		color.Yellow("fix cache unavailable: %v", err)
		return f
	}
	return fixer.NewCached(f, c)
}

// openRepo opens the git repository for publishing. A missing repository
// degrades to plain file writes.
func openRepo(c *cli.Context, cfg *config.Config, root string) vcs.VersionControl {
	if c.Bool("no-commit") {
		return nil
	}
	repo, err := vcs.Open(root, vcs.Signature{
		Name:  cfg.Publish.AuthorName,
		Email: cfg.Publish.AuthorEmail,
	})
	if err != nil {
		color.Yellow("Not a git repository, fixes will be written without commits")
		return nil
	}
	return repo
}

// fileProgress renders a progress bar over the per-file proposal
// fan-out, created lazily once the file count is known.
func fileProgress(label string) proposer.ProgressFunc {
	var bar *progress.Tracker
	return func(path string, done, total int) {
		if bar == nil {
			bar = progress.NewTracker(label, total)
		}
		bar.Describe(filepath.Base(path))
		bar.Tick()
		if done >= total {
			bar.FinishSuccess()
		}
	}
}

func newService(c *cli.Context, cfg *config.Config, root string) (*engine.Service, error) {
	opts := []engine.Option{
		engine.WithConfig(cfg),
		engine.WithProposeProgress(fileProgress("Proposing fixes")),
	}
	if f := newAIFixer(c, cfg, root); f != nil {
		opts = append(opts, engine.WithFixer(f))
	}
	if vc := openRepo(c, cfg, root); vc != nil {
		opts = append(opts, engine.WithVersionControl(vc))
	}
	return engine.New(root, opts...)
}

func mergeReports(svc *engine.Service) ([]models.Violation, error) {
	spec, code, err := svc.LoadReports()
	if err != nil {
		return nil, err
	}
	return append(append([]models.Violation{}, spec...), code...), nil
}

// Proposals and review decisions live under .govagent so that propose,
// review, and apply compose across invocations.
const stateDirName = ".govagent"

type proposalState struct {
	Category string               `json:"category"`
	Fixes    []models.ProposedFix `json:"fixes"`
	Dropped  []proposer.Dropped   `json:"dropped,omitempty"`
	Diffs    []models.FileDiff    `json:"diffs"`
}

func proposalPath(root string) string {
	return filepath.Join(root, stateDirName, "proposal.json")
}

func reviewPath(root string) string {
	return filepath.Join(root, stateDirName, "review.json")
}

func saveProposal(root string, state *proposalState) error {
	dir := filepath.Join(root, stateDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(proposalPath(root), data, 0644)
}

func loadProposal(root string) (*proposalState, error) {
	data, err := os.ReadFile(proposalPath(root))
	if err != nil {
		return nil, fmt.Errorf("no proposal found, run 'govagent propose' first: %w", err)
	}
	var state proposalState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding proposal: %w", err)
	}
	return &state, nil
}

func triageCmd() *cli.Command {
	return &cli.Command{
		Name:      "triage",
		Usage:     "Classify reported violations into prioritized categories",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fixed-report",
				Usage: "Report of already-resolved violations, adds the remediation progress view",
			},
			&cli.BoolFlag{
				Name:  "rules",
				Usage: "Show per-rule detail with fix complexity",
			},
		},
		Action: runTriageCmd,
	}
}

func runTriageCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	svc, err := engine.New(getRoot(c), engine.WithConfig(cfg))
	if err != nil {
		return err
	}
	violations, err := mergeReports(svc)
	if err != nil {
		return err
	}

	var fixed []models.Violation
	if path := c.String("fixed-report"); path != "" {
		sc, err := scanner.New()
		if err != nil {
			return err
		}
		if fixed, err = sc.Load(path); err != nil {
			return fmt.Errorf("fixed report %s: %w", path, err)
		}
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	cls := svc.Classifier()
	report := svc.Triage(violations)
	sections := &output.Report{
		Title:    "Triage",
		Sections: []output.Renderable{output.TriageTable(report)},
	}
	if c.Bool("rules") {
		sections.Sections = append(sections.Sections, output.RuleDetailTable(report, cls.Subcategory))
	}
	if len(fixed) > 0 {
		fixedRules := make(map[string]bool, len(fixed))
		for _, v := range fixed {
			fixedRules[v.Rule] = true
		}
		remaining := make([]models.Violation, 0, len(violations))
		for _, v := range violations {
			if !fixedRules[v.Rule] {
				remaining = append(remaining, v)
			}
		}
		var order []string
		for _, cat := range cls.Categories() {
			order = append(order, cat.Name)
		}
		sections.Sections = append(sections.Sections, output.ProgressTable(cls.Progress(violations, remaining), order))
	}
	if err := formatter.Output(sections); err != nil {
		return err
	}

	if next, rest := cls.NextCategory(violations, fixed); next != "" && formatter.Format() == output.FormatText {
		formatter.Info("Next category to fix: %s (%d violation(s) remaining)", next, len(rest))
	}
	return nil
}

func proposeCmd() *cli.Command {
	return &cli.Command{
		Name:      "propose",
		Usage:     "Generate fix proposals for one category of violations",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category to fix (defaults to the highest-priority one)",
			},
			&cli.BoolFlag{
				Name:  "no-ai",
				Usage: "Disable the AI fallback, deterministic strategies only",
			},
		},
		Action: runProposeCmd,
	}
}

func runProposeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	root := getRoot(c)
	opts := []engine.Option{
		engine.WithConfig(cfg),
		engine.WithProposeProgress(fileProgress("Proposing fixes")),
	}
	if f := newAIFixer(c, cfg, root); f != nil {
		opts = append(opts, engine.WithFixer(f))
	}
	svc, err := engine.New(root, opts...)
	if err != nil {
		return err
	}
	violations, err := mergeReports(svc)
	if err != nil {
		return err
	}

	category := c.String("category")
	var targeted []models.Violation
	if category == "" {
		category, targeted = svc.Classifier().NextCategory(violations, nil)
		if category == "" {
			color.Green("No violations reported, nothing to propose")
			return nil
		}
	} else {
		targeted = svc.Classifier().Partition(violations)[category]
	}
	if len(targeted) == 0 {
		return fmt.Errorf("no violations in category %s", category)
	}

	proposal, diffs, err := svc.Propose(c.Context, targeted)
	if err != nil {
		return fmt.Errorf("proposing fixes: %w", err)
	}

	state := &proposalState{
		Category: category,
		Fixes:    proposal.Fixes,
		Dropped:  proposal.Dropped,
		Diffs:    diffs,
	}
	if err := saveProposal(root, state); err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := &output.Report{
		Title: fmt.Sprintf("Fix proposals for %s", category),
		Sections: []output.Renderable{
			output.ProposalTable(proposal.Fixes),
			output.DiffSummaryTable(diffs, diffaudit.Summarize(diffs)),
		},
		Data: state,
	}
	if err := formatter.Output(report); err != nil {
		return err
	}

	if len(proposal.Dropped) > 0 && formatter.Format() == output.FormatText {
		formatter.Warning("%d violation(s) need manual fixes:", len(proposal.Dropped))
		for _, d := range proposal.Dropped {
			fmt.Printf("  - %s: %s (%s)\n", d.Violation.Rule, d.Violation.Message, d.Reason)
		}
	}
	return nil
}

func reviewCmd() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Review proposed fixes interactively",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "approve-all",
				Usage: "Approve every pending fix without prompting",
			},
			&cli.BoolFlag{
				Name:  "reject-all",
				Usage: "Reject every pending fix without prompting",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a markdown review report to this file",
			},
		},
		Action: runReviewCmd,
	}
}

func runReviewCmd(c *cli.Context) error {
	root := getRoot(c)
	state, err := loadProposal(root)
	if err != nil {
		return err
	}
	if len(state.Fixes) == 0 {
		color.Green("Nothing to review")
		return nil
	}

	ledger := review.NewLedger(state.Fixes)
	if rec, err := review.LoadRecord(reviewPath(root)); err == nil {
		review.Restore(ledger, rec)
	}

	switch {
	case c.Bool("approve-all"):
		ledger.ApproveAll()
	case c.Bool("reject-all"):
		ledger.RejectAll()
	default:
		session := review.NewSession(ledger, state.Diffs, os.Stdin, os.Stdout)
		if err := session.Run(); err != nil {
			return err
		}
	}

	if err := review.Save(ledger, reviewPath(root)); err != nil {
		return err
	}
	if path := c.String("report"); path != "" {
		if err := os.WriteFile(path, []byte(review.MarkdownReport(ledger)), 0644); err != nil {
			return fmt.Errorf("writing review report: %w", err)
		}
	}

	s := ledger.Summary()
	color.Green("Review saved: %d approved, %d rejected, %d skipped, %d pending",
		s.Approved, s.Rejected, s.Skipped, s.Pending)
	return nil
}

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Publish approved fixes as a branch with one commit per rule",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Approve all changed fixes when no review was recorded",
			},
			&cli.BoolFlag{
				Name:  "no-commit",
				Usage: "Write files without branching or committing",
			},
		},
		Action: runApplyCmd,
	}
}

func runApplyCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	root := getRoot(c)
	state, err := loadProposal(root)
	if err != nil {
		return err
	}

	ledger := review.NewLedger(state.Fixes)
	rec, err := review.LoadRecord(reviewPath(root))
	switch {
	case err == nil:
		review.Restore(ledger, rec)
	case c.Bool("yes"):
		ledger.ApproveChanged()
	default:
		return fmt.Errorf("no review recorded, run 'govagent review' or pass --yes")
	}

	approved := ledger.Approved()
	if len(approved) == 0 {
		color.Yellow("No approved fixes to apply")
		return nil
	}

	opts := []engine.Option{engine.WithConfig(cfg)}
	if vc := openRepo(c, cfg, root); vc != nil {
		opts = append(opts, engine.WithVersionControl(vc))
	}
	svc, err := engine.New(root, opts...)
	if err != nil {
		return err
	}
	cs, err := svc.Publish(approved)
	if err != nil {
		return fmt.Errorf("publishing fixes: %w", err)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	summary := publish.Summarize(cs, approved)
	if err := formatter.Output(output.ChangeSetTable(*cs, summary)); err != nil {
		return err
	}
	if c.Bool("verbose") && cs.Description != "" && formatter.Format() == output.FormatText {
		fmt.Println()
		fmt.Println(cs.Description)
	}
	return nil
}

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Cross-check specification findings against implementation findings",
		ArgsUsage: "[path]",
		Action:    runSyncCmd,
	}
}

func runSyncCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	svc, err := engine.New(getRoot(c), engine.WithConfig(cfg))
	if err != nil {
		return err
	}
	spec, code, err := svc.LoadReports()
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := svc.Sync(spec, code)
	if err := formatter.Output(output.SyncTable(report)); err != nil {
		return err
	}
	if formatter.Format() == output.FormatText && report.Summary.Total > 0 && report.Summary.InSync == report.Summary.Total {
		formatter.Success("Specification and implementation agree on every artifact pair")
	}
	return nil
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Build the project and compare violation counts",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category label for the validation round",
			},
		},
		Action: runValidateCmd,
	}
}

func runValidateCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	svc, err := engine.New(getRoot(c), engine.WithConfig(cfg))
	if err != nil {
		return err
	}
	before, err := mergeReports(svc)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Building project...")
	res, err := svc.Validate(c.Context, c.String("category"), before)
	if err != nil {
		spinner.FinishError(err)
		return err
	}
	spinner.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(output.ValidationSection(res)); err != nil {
		return err
	}
	if !res.Success {
		return cli.Exit("validation failed", 1)
	}
	return nil
}

func fixCmd() *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Run the full pipeline: triage, propose, review, publish, validate",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category to fix (defaults to the highest-priority one)",
			},
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Approve changed fixes without interactive review",
			},
			&cli.BoolFlag{
				Name:  "skip-build",
				Usage: "Skip the verification build",
			},
			&cli.BoolFlag{
				Name:  "no-ai",
				Usage: "Disable the AI fallback, deterministic strategies only",
			},
			&cli.BoolFlag{
				Name:  "no-commit",
				Usage: "Write files without branching or committing",
			},
		},
		Action: runFixCmd,
	}
}

func runFixCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	root := getRoot(c)
	svc, err := newService(c, cfg, root)
	if err != nil {
		return err
	}

	opts := engine.FixOptions{
		Category:  c.String("category"),
		SkipBuild: c.Bool("skip-build"),
	}
	if !c.Bool("yes") {
		opts.Review = func(ledger *review.Ledger, diffs []models.FileDiff) error {
			return review.NewSession(ledger, diffs, os.Stdin, os.Stdout).Run()
		}
	}

	res, err := svc.Fix(c.Context, opts)
	if err != nil {
		return err
	}
	if res.Category == "" {
		color.Green("No violations reported, nothing to fix")
		return nil
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	sections := []output.Renderable{output.TriageTable(res.Triage)}
	if res.Proposal != nil {
		sections = append(sections, output.ProposalTable(res.Proposal.Fixes))
	}
	if res.ChangeSet != nil {
		sections = append(sections, output.ChangeSetTable(*res.ChangeSet, res.Summary))
	}
	if res.Validation != nil {
		sections = append(sections, output.ValidationSection(*res.Validation))
	}
	report := &output.Report{
		Title:    fmt.Sprintf("Auto-fix: %s", res.Category),
		Sections: sections,
		Data:     res,
	}
	if err := formatter.Output(report); err != nil {
		return err
	}

	if res.Validation != nil && !res.Validation.Success {
		return cli.Exit("validation failed", 1)
	}
	return nil
}
