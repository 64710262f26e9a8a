package fixer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

func TestBuildFilePrompt(t *testing.T) {
	prompt := buildFilePrompt("src/Main.java", "public class Main {}\n", []models.Violation{
		{Rule: "no-sysout", Line: 10, Message: "uses System.out"},
		{Rule: "no-empty-catch", Message: "empty catch block"},
	})

	assert.Contains(t, prompt, "File: src/Main.java")
	assert.Contains(t, prompt, "- [no-sysout] line 10: uses System.out")
	assert.Contains(t, prompt, "- [no-empty-catch] empty catch block")
	assert.Contains(t, prompt, "public class Main {}")
}

func TestBuildCrossFilePromptOrdersFiles(t *testing.T) {
	prompt := buildCrossFilePrompt(map[string]string{
		"b.yaml": "b: 1\n",
		"a.java": "class A {}\n",
	}, nil)

	aIdx := strings.Index(prompt, "=== FILE: a.java")
	bIdx := strings.Index(prompt, "=== FILE: b.yaml")
	require.GreaterOrEqual(t, aIdx, 0)
	require.GreaterOrEqual(t, bIdx, 0)
	assert.Less(t, aIdx, bIdx)
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "```java\nclass A {}\n```", "class A {}\n"},
		{"fenced no lang", "```\nhello\n```", "hello\n"},
		{"bare", "plain content", "plain content"},
		{"leading prose", "Here is the fix:\n```\nfixed\n```", "fixed\n"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractContent(tt.in))
		})
	}
}

func TestExtractFiles(t *testing.T) {
	text := "=== FILE: a.java ===\n```java\nclass A {}\n```\n\n=== FILE: b.yaml ===\n```yaml\nb: 2\n```\n"

	files := extractFiles(text)
	require.Len(t, files, 2)
	assert.Equal(t, "class A {}\n", files["a.java"])
	assert.Equal(t, "b: 2\n", files["b.yaml"])
}

func TestExtractFilesIgnoresGarbage(t *testing.T) {
	assert.Empty(t, extractFiles("no markers here"))
}

func TestNewAnthropicRequiresKey(t *testing.T) {
	_, err := NewAnthropic(Config{})
	assert.Error(t, err)

	f, err := NewAnthropic(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, f)
}
