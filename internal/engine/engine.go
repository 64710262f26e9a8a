// Package engine orchestrates the governance pipeline: scan reports,
// triage violations, propose fixes, audit diffs, review, publish, and
// verify the result with a build.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/vraravam/api-governance-agent/internal/buildloop"
	"github.com/vraravam/api-governance-agent/internal/classifier"
	"github.com/vraravam/api-governance-agent/internal/diffaudit"
	"github.com/vraravam/api-governance-agent/internal/fixer"
	"github.com/vraravam/api-governance-agent/internal/proposer"
	"github.com/vraravam/api-governance-agent/internal/publish"
	"github.com/vraravam/api-governance-agent/internal/review"
	"github.com/vraravam/api-governance-agent/internal/scanner"
	"github.com/vraravam/api-governance-agent/internal/syncval"
	"github.com/vraravam/api-governance-agent/internal/vcs"
	"github.com/vraravam/api-governance-agent/pkg/config"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Reviewer decides the fate of proposed fixes. The CLI supplies an
// interactive session; tests and --yes runs supply auto-approval.
type Reviewer func(ledger *review.Ledger, diffs []models.FileDiff) error

// Service wires the pipeline stages together.
type Service struct {
	cfg      *config.Config
	root     string
	scan     scanner.Scanner
	cls      *classifier.Classifier
	auditor  *diffaudit.Auditor
	aiFixer  fixer.ContentFixer
	runner   buildloop.BuildRunner
	rescan   buildloop.Rescanner
	vc       vcs.VersionControl
	progress proposer.ProgressFunc
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithScanner replaces the report scanner.
func WithScanner(sc scanner.Scanner) Option {
	return func(s *Service) {
		s.scan = sc
	}
}

// WithFixer sets the AI fallback for violations no deterministic
// strategy covers.
func WithFixer(f fixer.ContentFixer) Option {
	return func(s *Service) {
		s.aiFixer = f
	}
}

// WithBuildRunner replaces the verification build runner.
func WithBuildRunner(r buildloop.BuildRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithRescanner replaces how violations are re-counted after a fix
// round.
func WithRescanner(r buildloop.Rescanner) Option {
	return func(s *Service) {
		s.rescan = r
	}
}

// WithProposeProgress installs a per-file completion observer for the
// proposal fan-out, e.g. a progress bar.
func WithProposeProgress(fn proposer.ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithVersionControl sets the repository used for publishing.
func WithVersionControl(vc vcs.VersionControl) Option {
	return func(s *Service) {
		s.vc = vc
	}
}

// New creates a Service rooted at the project directory.
func New(root string, opts ...Option) (*Service, error) {
	scan, err := scanner.New()
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:     config.LoadOrDefault(),
		root:    root,
		scan:    scan,
		cls:     classifier.New(),
		auditor: diffaudit.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = buildloop.NewExecRunner(
			buildloop.WithTimeout(s.cfg.Build.Timeout()),
			buildloop.WithClean(s.cfg.Build.Clean),
		)
	}
	if s.rescan == nil {
		s.rescan = s.reloadCodeReport
	}
	return s, nil
}

// Classifier exposes the category registry for rendering.
func (s *Service) Classifier() *classifier.Classifier {
	return s.cls
}

// LoadReports loads the spec and code violation reports named in the
// configuration. An unset or absent report yields an empty slice, not
// an error, so a project can run with only one engine wired up.
func (s *Service) LoadReports() (spec, code []models.Violation, err error) {
	load := func(path string) ([]models.Violation, error) {
		if path == "" {
			return nil, nil
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil, nil
		}
		return s.scan.Load(path)
	}
	if spec, err = load(s.cfg.Triage.SpecReport); err != nil {
		return nil, nil, fmt.Errorf("spec report %s: %w", s.cfg.Triage.SpecReport, err)
	}
	if code, err = load(s.cfg.Triage.CodeReport); err != nil {
		return nil, nil, fmt.Errorf("code report %s: %w", s.cfg.Triage.CodeReport, err)
	}
	return spec, code, nil
}

// Triage classifies violations into prioritized categories.
func (s *Service) Triage(violations []models.Violation) models.TriageReport {
	return s.cls.Summarize(violations)
}

// Propose generates fixes for the given violations and audits each one
// into a reviewable diff.
func (s *Service) Propose(ctx context.Context, violations []models.Violation) (*proposer.Proposal, []models.FileDiff, error) {
	opts := []proposer.Option{
		proposer.WithWorkers(s.cfg.Proposer.Workers),
	}
	if s.aiFixer != nil {
		opts = append(opts, proposer.WithFixer(s.aiFixer))
	}
	if !s.cfg.Proposer.Deterministic {
		opts = append(opts, proposer.WithoutDeterministic())
	}
	if s.progress != nil {
		opts = append(opts, proposer.WithProgress(s.progress))
	}
	coord := proposer.New(s.root, opts...)

	proposal, err := coord.Propose(ctx, violations)
	if err != nil {
		return nil, nil, err
	}
	diffs, err := s.auditor.AuditAll(proposal.Fixes)
	if err != nil {
		return nil, nil, err
	}
	return proposal, diffs, nil
}

// Publish applies the approved fixes on a fresh branch, one commit per
// rule group.
func (s *Service) Publish(approved []models.ProposedFix) (*models.ChangeSet, error) {
	opts := []publish.Option{
		publish.WithBranchPrefix(s.cfg.Publish.BranchPrefix),
	}
	if s.vc != nil {
		opts = append(opts, publish.WithVersionControl(s.vc))
	}
	return publish.New(s.root, opts...).Publish(approved)
}

// Sync pairs the flagged spec documents with their related
// implementation artifacts and reports where the two layers drifted.
func (s *Service) Sync(spec, code []models.Violation) models.SyncReport {
	return syncval.New().Validate(spec, code)
}

// Validate builds the project and compares violation counts before and
// after a fix round.
func (s *Service) Validate(ctx context.Context, category string, before []models.Violation) (models.ValidationResult, error) {
	loop := buildloop.NewLoop(s.runner, s.rescan, buildloop.WithFilter(s.categoryFilter))
	return loop.Validate(ctx, s.root, category, before)
}

func (s *Service) categoryFilter(category string, violations []models.Violation) []models.Violation {
	return s.cls.Partition(violations)[category]
}

func (s *Service) reloadCodeReport(ctx context.Context, dir string) ([]models.Violation, error) {
	if s.cfg.Triage.CodeReport == "" {
		return nil, nil
	}
	return s.scan.Load(s.cfg.Triage.CodeReport)
}

// AutoApprove accepts every fix that changes its file and skips the
// rest.
func AutoApprove(ledger *review.Ledger, diffs []models.FileDiff) error {
	ledger.ApproveChanged()
	return nil
}

// FixOptions configures a full pipeline run.
type FixOptions struct {
	// Category restricts the run to one triage category. Empty means
	// the highest-priority category with violations.
	Category string
	// Review decides which fixes survive. Defaults to AutoApprove.
	Review Reviewer
	// SkipBuild publishes without the verification build.
	SkipBuild bool
}

// FixResult collects everything a pipeline run produced.
type FixResult struct {
	Triage     models.TriageReport      `json:"triage"`
	Category   string                   `json:"category"`
	Proposal   *proposer.Proposal       `json:"proposal"`
	Diffs      []models.FileDiff        `json:"diffs"`
	Review     models.ReviewSummary     `json:"review"`
	ChangeSet  *models.ChangeSet        `json:"change_set,omitempty"`
	Summary    models.ChangeSummary     `json:"summary"`
	Validation *models.ValidationResult `json:"validation,omitempty"`
}

// Fix runs the whole pipeline for one category: triage, propose,
// review, publish, and verify. It stops cleanly when a stage leaves
// nothing for the next one.
func (s *Service) Fix(ctx context.Context, opts FixOptions) (*FixResult, error) {
	spec, code, err := s.LoadReports()
	if err != nil {
		return nil, err
	}
	violations := append(append([]models.Violation{}, spec...), code...)

	res := &FixResult{Triage: s.cls.Summarize(violations)}

	res.Category = opts.Category
	var targeted []models.Violation
	if res.Category == "" {
		res.Category, targeted = s.cls.NextCategory(violations, nil)
		if res.Category == "" {
			return res, nil
		}
	} else {
		targeted = s.cls.Partition(violations)[res.Category]
	}
	if len(targeted) == 0 {
		return res, fmt.Errorf("no violations in category %s", res.Category)
	}

	proposal, diffs, err := s.Propose(ctx, targeted)
	if err != nil {
		return nil, err
	}
	res.Proposal = proposal
	res.Diffs = diffs
	if len(proposal.Fixes) == 0 {
		return res, nil
	}

	ledger := review.NewLedger(proposal.Fixes)
	reviewer := opts.Review
	if reviewer == nil {
		reviewer = AutoApprove
	}
	if err := reviewer(ledger, diffs); err != nil {
		return nil, err
	}
	res.Review = ledger.Summary()

	approved := ledger.Approved()
	if len(approved) == 0 {
		return res, nil
	}
	cs, err := s.Publish(approved)
	if err != nil {
		return nil, err
	}
	res.ChangeSet = cs
	res.Summary = publish.Summarize(cs, approved)

	if !opts.SkipBuild {
		vr, err := s.Validate(ctx, res.Category, violations)
		if err != nil {
			return nil, err
		}
		res.Validation = &vr
	}
	return res, nil
}
