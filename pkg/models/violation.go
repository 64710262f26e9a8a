// Package models defines the shared data model for the governance triage
// and auto-fix pipeline.
package models

import (
	"encoding/json"
	"strings"
)

// Severity is the normalized severity of a reported violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Violation is one deviation from a governance rule, as reported by an
// external analysis engine. Violations are immutable once produced.
type Violation struct {
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"` // locator into a spec document, e.g. "paths./users.get"
	Engine   string   `json:"engine,omitempty"`
}

// rawViolation mirrors the loose report shapes emitted by the scanning
// engines: rule may appear as rule/rule_id/code, the file as file/source,
// and severity as either a string or a Spectral ordinal.
type rawViolation struct {
	Rule     string          `json:"rule"`
	RuleID   string          `json:"rule_id"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	File     string          `json:"file"`
	Source   string          `json:"source"`
	Class    string          `json:"class"`
	Line     int             `json:"line"`
	Severity json.RawMessage `json:"severity"`
	Path     json.RawMessage `json:"path"` // string, or a Spectral JSONPath array
	Engine   string          `json:"engine"`
}

// parsePath flattens the path field, which Spectral encodes as an array
// of segments and other engines as a plain string.
func parsePath(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		return strings.Join(parts, ".")
	}
	return ""
}

// ParseSeverity normalizes the severity encodings seen across engines.
// Spectral reports ordinals (0 = error, 1 = warning, 2+ = info/hint);
// ArchUnit reports strings. Unknown values default to info.
func ParseSeverity(raw json.RawMessage) Severity {
	if len(raw) == 0 {
		return SeverityInfo
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n {
		case 0:
			return SeverityCritical
		case 1:
			return SeverityWarning
		default:
			return SeverityInfo
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(s) {
		case "critical", "error", "high":
			return SeverityCritical
		case "warning", "warn", "medium":
			return SeverityWarning
		default:
			return SeverityInfo
		}
	}

	return SeverityInfo
}

// NormalizeViolation converts one loosely shaped violation record into the
// canonical Violation. It never fails: missing fields become zero values so
// classification downstream stays total.
func NormalizeViolation(data []byte) (Violation, error) {
	var raw rawViolation
	if err := json.Unmarshal(data, &raw); err != nil {
		return Violation{}, err
	}
	return raw.normalize(), nil
}

// NormalizeViolations converts a JSON array of loose violation records.
func NormalizeViolations(data []byte) ([]Violation, error) {
	var raws []rawViolation
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]Violation, 0, len(raws))
	for _, raw := range raws {
		out = append(out, raw.normalize())
	}
	return out, nil
}

func (r rawViolation) normalize() Violation {
	rule := r.Rule
	if rule == "" {
		rule = r.RuleID
	}
	if rule == "" {
		rule = r.Code
	}

	file := r.File
	if file == "" {
		file = r.Source
	}
	if file == "" {
		file = r.Class
	}

	return Violation{
		Rule:     rule,
		Message:  r.Message,
		File:     file,
		Line:     r.Line,
		Severity: ParseSeverity(r.Severity),
		Path:     parsePath(r.Path),
		Engine:   r.Engine,
	}
}

// GroupByFile partitions violations by their file path. Violations without
// a file path are grouped under the empty key; callers decide how to report
// them.
func GroupByFile(violations []Violation) map[string][]Violation {
	grouped := make(map[string][]Violation)
	for _, v := range violations {
		grouped[v.File] = append(grouped[v.File], v)
	}
	return grouped
}
