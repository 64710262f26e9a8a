package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// TestGetRoot verifies root resolution from CLI arguments.
func TestGetRoot(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: ".",
		},
		{
			name:     "explicit path",
			args:     []string{"/foo/bar"},
			expected: "/foo/bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					if got := getRoot(c); got != tt.expected {
						t.Errorf("getRoot() = %q, want %q", got, tt.expected)
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

func TestProposalStateRoundTrip(t *testing.T) {
	root := t.TempDir()
	state := &proposalState{
		Category: "CODE_QUALITY",
		Fixes: []models.ProposedFix{
			{FixID: "fix-0001", RuleID: "no-sysout", FilePath: "src/App.java"},
		},
		Diffs: []models.FileDiff{
			{FixID: "fix-0001", FilePath: "src/App.java", Additions: 2, Deletions: 1},
		},
	}

	if err := saveProposal(root, state); err != nil {
		t.Fatalf("saveProposal: %v", err)
	}
	loaded, err := loadProposal(root)
	if err != nil {
		t.Fatalf("loadProposal: %v", err)
	}

	if loaded.Category != state.Category {
		t.Errorf("category = %q, want %q", loaded.Category, state.Category)
	}
	if len(loaded.Fixes) != 1 || loaded.Fixes[0].FixID != "fix-0001" {
		t.Errorf("fixes = %+v", loaded.Fixes)
	}
	if len(loaded.Diffs) != 1 || loaded.Diffs[0].Additions != 2 {
		t.Errorf("diffs = %+v", loaded.Diffs)
	}
}

func TestLoadProposalMissing(t *testing.T) {
	_, err := loadProposal(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing proposal")
	}
	if !strings.Contains(err.Error(), "govagent propose") {
		t.Errorf("error should point at the propose command: %v", err)
	}
}

// TestTriageCommand runs the triage command end to end against a real
// report file.
func TestTriageCommand(t *testing.T) {
	root := t.TempDir()
	report := filepath.Join(root, "archunit-report.json")
	body := `[{"rule":"no-sysout","file":"src/App.java","message":"System.out usage","severity":"warning"}]`
	if err := os.WriteFile(report, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(root, "triage.json")

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
			&cli.StringFlag{Name: "spec-report"},
			&cli.StringFlag{Name: "code-report"},
			&cli.BoolFlag{Name: "verbose"},
			&cli.BoolFlag{Name: "no-color"},
		},
		Commands: []*cli.Command{triageCmd()},
	}
	err := app.Run([]string{
		"govagent", "--format", "json", "--output", out,
		"--spec-report", "", "--code-report", report,
		"triage", root,
	})
	if err != nil {
		t.Fatalf("triage: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "CODE_QUALITY") {
		t.Errorf("triage output missing category:\n%s", data)
	}
}
