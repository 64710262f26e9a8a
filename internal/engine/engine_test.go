package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vraravam/api-governance-agent/internal/buildloop"
	"github.com/vraravam/api-governance-agent/internal/review"
	"github.com/vraravam/api-governance-agent/pkg/config"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

type passRunner struct{}

func (passRunner) Build(ctx context.Context, dir string) models.BuildResult {
	return models.BuildResult{Success: true, BuildTool: "gradle"}
}

type failRunner struct{}

func (failRunner) Build(ctx context.Context, dir string) models.BuildResult {
	return models.BuildResult{Success: false, BuildTool: "gradle", Error: "compilation failed"}
}

type fakeVC struct {
	branch  string
	commits []string
}

func (f *fakeVC) CreateBranch(name string) (string, error) {
	f.branch = name
	return name, nil
}

func (f *fakeVC) StageAndCommit(paths []string, message string) (string, error) {
	f.commits = append(f.commits, message)
	return fmt.Sprintf("commit-%d", len(f.commits)), nil
}

func (f *fakeVC) CurrentBranch() (string, error) {
	return f.branch, nil
}

func staticRescan(after []models.Violation) buildloop.Rescanner {
	return func(ctx context.Context, dir string) ([]models.Violation, error) {
		return after, nil
	}
}

const sysoutApp = `package com.example;

public class App {
    public void run() {
        System.out.println("starting");
    }
}
`

// seedProject lays out a project with one logging violation and a code
// report describing it.
func seedProject(t *testing.T) (root string, cfg *config.Config) {
	t.Helper()
	root = t.TempDir()

	rel := filepath.Join("src", "main", "java", "com", "example", "App.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(root, rel)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(sysoutApp), 0o644))

	report := filepath.Join(root, "archunit-report.json")
	body := `[{"rule":"no-sysout","file":"src/main/java/com/example/App.java","message":"System.out usage","severity":"warning","engine":"archunit"}]`
	require.NoError(t, os.WriteFile(report, []byte(body), 0o644))

	cfg = config.DefaultConfig()
	cfg.Triage.SpecReport = ""
	cfg.Triage.CodeReport = report
	return root, cfg
}

func newService(t *testing.T, root string, cfg *config.Config, vc *fakeVC) *Service {
	t.Helper()
	svc, err := New(root,
		WithConfig(cfg),
		WithBuildRunner(passRunner{}),
		WithRescanner(staticRescan(nil)),
		WithVersionControl(vc),
	)
	require.NoError(t, err)
	return svc
}

func TestFixEndToEnd(t *testing.T) {
	root, cfg := seedProject(t)
	vc := &fakeVC{}
	svc := newService(t, root, cfg, vc)

	res, err := svc.Fix(context.Background(), FixOptions{})
	require.NoError(t, err)

	if res.Category != "CODE_QUALITY" {
		t.Errorf("category = %q, want CODE_QUALITY", res.Category)
	}
	require.Len(t, res.Proposal.Fixes, 1)
	require.Len(t, res.Diffs, 1)
	if res.Review.Approved != 1 {
		t.Errorf("approved = %d, want 1", res.Review.Approved)
	}

	require.NotNil(t, res.ChangeSet)
	require.Len(t, res.ChangeSet.Commits, 1)
	if !strings.HasPrefix(vc.branch, "governance/auto-fix-") {
		t.Errorf("branch = %q, want governance/auto-fix- prefix", vc.branch)
	}

	fixed, err := os.ReadFile(filepath.Join(root, "src", "main", "java", "com", "example", "App.java"))
	require.NoError(t, err)
	if !strings.Contains(string(fixed), "log.info(") {
		t.Errorf("fix not applied to working tree:\n%s", fixed)
	}

	require.NotNil(t, res.Validation)
	if !res.Validation.Success {
		t.Errorf("validation failed: %+v", res.Validation)
	}
	if res.Validation.Fixed != 1 {
		t.Errorf("fixed = %d, want 1", res.Validation.Fixed)
	}
}

func TestFixNoViolations(t *testing.T) {
	root, cfg := seedProject(t)
	require.NoError(t, os.WriteFile(cfg.Triage.CodeReport, []byte(`[]`), 0o644))
	svc := newService(t, root, cfg, &fakeVC{})

	res, err := svc.Fix(context.Background(), FixOptions{})
	require.NoError(t, err)
	if res.Category != "" {
		t.Errorf("category = %q, want empty", res.Category)
	}
	require.Nil(t, res.Proposal)
	require.Nil(t, res.ChangeSet)
}

func TestFixRejectedFixesAreNotPublished(t *testing.T) {
	root, cfg := seedProject(t)
	vc := &fakeVC{}
	svc := newService(t, root, cfg, vc)

	rejectAll := func(ledger *review.Ledger, diffs []models.FileDiff) error {
		ledger.RejectAll()
		return nil
	}
	res, err := svc.Fix(context.Background(), FixOptions{Review: rejectAll})
	require.NoError(t, err)

	if res.Review.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", res.Review.Rejected)
	}
	require.Nil(t, res.ChangeSet)
	if len(vc.commits) != 0 {
		t.Errorf("unexpected commits: %v", vc.commits)
	}

	orig, err := os.ReadFile(filepath.Join(root, "src", "main", "java", "com", "example", "App.java"))
	require.NoError(t, err)
	require.Equal(t, sysoutApp, string(orig))
}

func TestFixSkipBuild(t *testing.T) {
	root, cfg := seedProject(t)
	svc := newService(t, root, cfg, &fakeVC{})

	res, err := svc.Fix(context.Background(), FixOptions{SkipBuild: true})
	require.NoError(t, err)
	require.NotNil(t, res.ChangeSet)
	require.Nil(t, res.Validation)
}

func TestFixBrokenBuildFailsValidation(t *testing.T) {
	root, cfg := seedProject(t)
	svc, err := New(root,
		WithConfig(cfg),
		WithBuildRunner(failRunner{}),
		WithRescanner(staticRescan(nil)),
		WithVersionControl(&fakeVC{}),
	)
	require.NoError(t, err)

	res, err := svc.Fix(context.Background(), FixOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Validation)
	if res.Validation.Success {
		t.Error("validation succeeded despite broken build")
	}
	if res.Validation.ViolationsAfter != res.Validation.ViolationsBefore {
		t.Errorf("counts changed on broken build: before=%d after=%d",
			res.Validation.ViolationsBefore, res.Validation.ViolationsAfter)
	}
}

func TestFixValidationIgnoresOtherCategories(t *testing.T) {
	root, cfg := seedProject(t)
	// The rescan finds a fresh security violation, but the CODE_QUALITY
	// round under repair is clean and must still pass.
	regression := []models.Violation{{Rule: "security-no-insecure-random", File: "Other.java"}}
	svc, err := New(root,
		WithConfig(cfg),
		WithBuildRunner(passRunner{}),
		WithRescanner(staticRescan(regression)),
		WithVersionControl(&fakeVC{}),
	)
	require.NoError(t, err)

	res, err := svc.Fix(context.Background(), FixOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Validation)
	if !res.Validation.Success {
		t.Errorf("validation failed on unrelated regression: %+v", res.Validation)
	}
	if res.Validation.New != 0 {
		t.Errorf("new = %d, want 0 for the targeted category", res.Validation.New)
	}
	if res.Validation.Fixed != 1 {
		t.Errorf("fixed = %d, want 1", res.Validation.Fixed)
	}
}

func TestFixUnknownCategory(t *testing.T) {
	root, cfg := seedProject(t)
	svc := newService(t, root, cfg, &fakeVC{})

	_, err := svc.Fix(context.Background(), FixOptions{Category: "SECURITY"})
	require.Error(t, err)
}

func TestSyncUsesBothReports(t *testing.T) {
	root, cfg := seedProject(t)
	svc := newService(t, root, cfg, &fakeVC{})

	spec := []models.Violation{{Rule: "operation-description", File: "openapi.yaml"}}
	report := svc.Sync(spec, nil)
	if report.Summary.SpecOnly == 0 {
		t.Errorf("expected spec-only entry, got %+v", report.Summary)
	}

	code := []models.Violation{{Rule: "pathVariablesShouldBeUUID", File: "UserController.java"}}
	report = svc.Sync([]models.Violation{{Rule: "uuid-resource-ids", File: "openapi.yaml"}}, code)
	if report.Summary.BothWrong != 1 {
		t.Errorf("expected a both_wrong pair for the mapped rule, got %+v", report.Summary)
	}
}
