package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check proposer defaults
	if cfg.Proposer.Workers != 3 {
		t.Errorf("Proposer.Workers = %d, want 3", cfg.Proposer.Workers)
	}
	if !cfg.Proposer.Deterministic {
		t.Error("Proposer.Deterministic should be true by default")
	}

	// Check fixer defaults
	if cfg.Fixer.APIKeyEnv != "ANTHROPIC_API_KEY" {
		t.Errorf("Fixer.APIKeyEnv = %s, want ANTHROPIC_API_KEY", cfg.Fixer.APIKeyEnv)
	}
	if cfg.Fixer.MaxTokens != 4096 {
		t.Errorf("Fixer.MaxTokens = %d, want 4096", cfg.Fixer.MaxTokens)
	}

	// Check cache defaults
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("Cache.TTL() = %v, want 24h", cfg.Cache.TTL())
	}

	// Check publish defaults
	if cfg.Publish.BranchPrefix != "governance/auto-fix" {
		t.Errorf("Publish.BranchPrefix = %s, want governance/auto-fix", cfg.Publish.BranchPrefix)
	}

	// Check build defaults
	if cfg.Build.TimeoutMinutes != 10 {
		t.Errorf("Build.TimeoutMinutes = %d, want 10", cfg.Build.TimeoutMinutes)
	}
	if cfg.Build.Timeout() != 10*time.Minute {
		t.Errorf("Build.Timeout() = %v, want 10m", cfg.Build.Timeout())
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "govagent.toml")

	content := `
[triage]
spec_report = "out/spectral.json"

[proposer]
workers = 5
deterministic = false

[build]
timeout_minutes = 20

[output]
format = "json"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Triage.SpecReport != "out/spectral.json" {
		t.Errorf("Triage.SpecReport = %s, want out/spectral.json", cfg.Triage.SpecReport)
	}
	if cfg.Proposer.Workers != 5 {
		t.Errorf("Proposer.Workers = %d, want 5", cfg.Proposer.Workers)
	}
	if cfg.Proposer.Deterministic {
		t.Error("Proposer.Deterministic should be false")
	}
	if cfg.Build.TimeoutMinutes != 20 {
		t.Errorf("Build.TimeoutMinutes = %d, want 20", cfg.Build.TimeoutMinutes)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "govagent.yaml")

	content := `
proposer:
  workers: 2

fixer:
  model: claude-test
  max_tokens: 2048

output:
  format: markdown
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Proposer.Workers != 2 {
		t.Errorf("Proposer.Workers = %d, want 2", cfg.Proposer.Workers)
	}
	if cfg.Fixer.Model != "claude-test" {
		t.Errorf("Fixer.Model = %s, want claude-test", cfg.Fixer.Model)
	}
	if cfg.Fixer.MaxTokens != 2048 {
		t.Errorf("Fixer.MaxTokens = %d, want 2048", cfg.Fixer.MaxTokens)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "govagent.json")

	content := `{
  "publish": {
    "branch_prefix": "fixes/batch"
  },
  "build": {
    "clean": true
  }
}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Publish.BranchPrefix != "fixes/batch" {
		t.Errorf("Publish.BranchPrefix = %s, want fixes/batch", cfg.Publish.BranchPrefix)
	}
	if !cfg.Build.Clean {
		t.Error("Build.Clean should be true")
	}
	// Untouched sections keep defaults
	if cfg.Proposer.Workers != 3 {
		t.Errorf("Proposer.Workers = %d, want default 3", cfg.Proposer.Workers)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/govagent.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "govagent.toml")

	// Invalid TOML
	content := `[proposer
invalid toml`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// In a directory without config files, should return defaults
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}

	if cfg.Proposer.Workers != 3 {
		t.Errorf("LoadOrDefault() returned non-default Workers: %d", cfg.Proposer.Workers)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	content := `
[proposer]
workers = 99
`
	if err := os.WriteFile(filepath.Join(tmpDir, "govagent.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg.Proposer.Workers != 99 {
		t.Errorf("LoadOrDefault() should load from file, got Workers=%d", cfg.Proposer.Workers)
	}
}

func TestFixerAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fixer.APIKeyEnv = "GOVAGENT_TEST_KEY"

	t.Setenv("GOVAGENT_TEST_KEY", "sk-test")
	if got := cfg.Fixer.APIKey(); got != "sk-test" {
		t.Errorf("APIKey() = %q, want sk-test", got)
	}
}
