package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for govagent.
type Config struct {
	// Triage settings
	Triage TriageConfig `koanf:"triage"`

	// Fix proposal settings
	Proposer ProposerConfig `koanf:"proposer"`

	// AI fixer settings
	Fixer FixerConfig `koanf:"fixer"`

	// Fix response cache settings
	Cache CacheConfig `koanf:"cache"`

	// Publishing settings
	Publish PublishConfig `koanf:"publish"`

	// Build validation settings
	Build BuildConfig `koanf:"build"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// TriageConfig controls classification and report intake.
type TriageConfig struct {
	SpecReport string `koanf:"spec_report"`
	CodeReport string `koanf:"code_report"`
	SchemaPath string `koanf:"schema_path"`
}

// ProposerConfig controls fix proposal generation.
type ProposerConfig struct {
	Workers       int  `koanf:"workers"`
	Deterministic bool `koanf:"deterministic"`
}

// FixerConfig configures the AI repair backend.
type FixerConfig struct {
	Model     string `koanf:"model"`
	APIKeyEnv string `koanf:"api_key_env"`
	MaxTokens int    `koanf:"max_tokens"`
}

// APIKey resolves the fixer credential from the configured environment
// variable. Empty means the AI backend is unavailable.
func (f FixerConfig) APIKey() string {
	return os.Getenv(f.APIKeyEnv)
}

// CacheConfig controls the on-disk cache of AI fix responses.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Dir      string `koanf:"dir"`
	TTLHours int    `koanf:"ttl_hours"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// PublishConfig controls branch and commit generation.
type PublishConfig struct {
	BranchPrefix string `koanf:"branch_prefix"`
	AuthorName   string `koanf:"author_name"`
	AuthorEmail  string `koanf:"author_email"`
}

// BuildConfig controls the validation build.
type BuildConfig struct {
	TimeoutMinutes int  `koanf:"timeout_minutes"`
	Clean          bool `koanf:"clean"`
}

// Timeout returns the build timeout as a duration.
func (b BuildConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutMinutes) * time.Minute
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Triage: TriageConfig{
			SpecReport: "spectral-report.json",
			CodeReport: "archunit-report.json",
		},
		Proposer: ProposerConfig{
			Workers:       3,
			Deterministic: true,
		},
		Fixer: FixerConfig{
			Model:     "claude-sonnet-4-20250514",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			MaxTokens: 4096,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Dir:      filepath.Join(".govagent", "cache"),
			TTLHours: 24,
		},
		Publish: PublishConfig{
			BranchPrefix: "governance/auto-fix",
			AuthorName:   "governance-agent",
			AuthorEmail:  "governance-agent@localhost",
		},
		Build: BuildConfig{
			TimeoutMinutes: 10,
			Clean:          false,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"govagent.toml",
		"govagent.yaml",
		"govagent.yml",
		"govagent.json",
		".govagent.toml",
		".govagent.yaml",
		".govagent.yml",
		".govagent.json",
	}

	searchDirs := []string{".", ".govagent"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
