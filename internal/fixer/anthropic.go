package fixer

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

const systemPrompt = `You are an automated code remediation tool for API governance violations.
You receive a source file and a list of governance rule violations found in it.
Return the complete corrected file content. Preserve formatting, imports, and
behavior; change only what the violations require. Do not add commentary.`

// AnthropicFixer implements ContentFixer against the Anthropic Messages
// API.
type AnthropicFixer struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// Config configures an AnthropicFixer.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string
	// Model selects the Claude model. Defaults to Sonnet.
	Model string
	// MaxTokens caps the response size. Defaults to 4096.
	MaxTokens int
}

// NewAnthropic creates an AnthropicFixer.
func NewAnthropic(cfg Config) (*AnthropicFixer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is not set")
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &AnthropicFixer{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// FixFile asks the model to rewrite one file.
func (f *AnthropicFixer) FixFile(ctx context.Context, path, content string, violations []models.Violation) (string, error) {
	prompt := buildFilePrompt(path, content, violations)

	text, err := f.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("fixing %s: %w", path, err)
	}

	fixed := extractContent(text)
	if fixed == "" {
		return "", fmt.Errorf("fixing %s: model returned no content", path)
	}
	return fixed, nil
}

// FixCrossFile asks the model to rewrite a group of related files in one
// request, so cross-cutting fixes stay consistent.
func (f *AnthropicFixer) FixCrossFile(ctx context.Context, files map[string]string, violations []models.Violation) (map[string]string, error) {
	prompt := buildCrossFilePrompt(files, violations)

	text, err := f.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("cross-file fix: %w", err)
	}

	fixed := extractFiles(text)
	if len(fixed) == 0 {
		return nil, fmt.Errorf("cross-file fix: model returned no files")
	}
	// Only keep files we actually sent.
	for path := range fixed {
		if _, ok := files[path]; !ok {
			delete(fixed, path)
		}
	}
	return fixed, nil
}

func (f *AnthropicFixer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := f.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     f.model,
		MaxTokens: f.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}
	return text, nil
}
