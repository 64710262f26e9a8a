package fixer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

const fileMarker = "=== FILE: "

func buildFilePrompt(path, content string, violations []models.Violation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n\nViolations to fix:\n", path)
	writeViolations(&b, violations)
	b.WriteString("\nCurrent content:\n```\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\nReturn only the corrected file content in a single code block.")
	return b.String()
}

func buildCrossFilePrompt(files map[string]string, violations []models.Violation) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("These files must be fixed together so they stay consistent.\n\nViolations to fix:\n")
	writeViolations(&b, violations)
	b.WriteString("\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "%s%s ===\n```\n%s", fileMarker, p, files[p])
		if !strings.HasSuffix(files[p], "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}
	fmt.Fprintf(&b, "Return every changed file using the same %q markers, each followed by one code block.", strings.TrimSpace(fileMarker))
	return b.String()
}

func writeViolations(b *strings.Builder, violations []models.Violation) {
	for _, v := range violations {
		if v.Line > 0 {
			fmt.Fprintf(b, "- [%s] line %d: %s\n", v.Rule, v.Line, v.Message)
		} else {
			fmt.Fprintf(b, "- [%s] %s\n", v.Rule, v.Message)
		}
	}
}

// extractContent pulls the corrected file out of a model response,
// stripping a surrounding markdown code fence when present.
func extractContent(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	// Skip the fence line, including any language tag.
	rest := text[start+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.LastIndex(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// extractFiles parses a multi-file response keyed by file markers.
func extractFiles(text string) map[string]string {
	files := make(map[string]string)
	sections := strings.Split(text, fileMarker)
	for _, section := range sections[1:] {
		nl := strings.Index(section, "\n")
		if nl < 0 {
			continue
		}
		header := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(section[:nl]), "==="))
		content := extractContent(section[nl+1:])
		if header != "" && content != "" {
			files[header] = content
		}
	}
	return files
}
