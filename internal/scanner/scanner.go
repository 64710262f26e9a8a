// Package scanner loads machine-generated violation reports from the
// governance engines and normalizes them into the shared violation model.
package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Scanner loads a violation report from a file.
type Scanner interface {
	Load(path string) ([]models.Violation, error)
}

// reportSchema accepts either a bare array of findings or an object
// wrapping one under "violations" or "results". Field-level tolerance
// lives in the normalizer, so the schema only pins the envelope shape.
const reportSchema = `{
  "oneOf": [
    {"type": "array", "items": {"type": "object"}},
    {
      "type": "object",
      "properties": {
        "violations": {"type": "array", "items": {"type": "object"}},
        "results": {"type": "array", "items": {"type": "object"}}
      }
    }
  ]
}`

// ReportScanner reads Spectral and ArchUnit style JSON reports.
type ReportScanner struct {
	engine string
	schema *jsonschema.Schema
}

// Option configures a ReportScanner.
type Option func(*ReportScanner)

// WithEngine tags loaded violations with the producing engine name.
func WithEngine(name string) Option {
	return func(s *ReportScanner) {
		s.engine = name
	}
}

// WithSchema replaces the built-in envelope schema.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(s *ReportScanner) {
		s.schema = schema
	}
}

// New creates a ReportScanner.
func New(opts ...Option) (*ReportScanner, error) {
	s := &ReportScanner{}
	for _, opt := range opts {
		opt(s)
	}
	if s.schema == nil {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(reportSchema))
		if err != nil {
			return nil, fmt.Errorf("parsing report schema: %w", err)
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report.json", doc); err != nil {
			return nil, fmt.Errorf("registering report schema: %w", err)
		}
		schema, err := compiler.Compile("report.json")
		if err != nil {
			return nil, fmt.Errorf("compiling report schema: %w", err)
		}
		s.schema = schema
	}
	return s, nil
}

// Load reads, validates, and normalizes a report file. A missing or
// malformed report is an error; an empty report is zero violations.
func (s *ReportScanner) Load(path string) ([]models.Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	return s.Parse(data)
}

// Parse validates and normalizes raw report bytes.
func (s *ReportScanner) Parse(data []byte) ([]models.Violation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	if err := s.schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("report does not match expected shape: %w", err)
	}

	entries, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	violations := make([]models.Violation, 0, len(entries))
	for _, entry := range entries {
		v, err := normalizeEntry(entry)
		if err != nil {
			return nil, err
		}
		if s.engine != "" {
			v.Engine = s.engine
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// unwrap extracts the findings array from either envelope form.
func unwrap(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parsing report array: %w", err)
		}
		return entries, nil
	}

	var envelope struct {
		Violations []json.RawMessage `json:"violations"`
		Results    []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("parsing report envelope: %w", err)
	}
	if envelope.Violations != nil {
		return envelope.Violations, nil
	}
	return envelope.Results, nil
}

// spectralEntry carries the one field Spectral emits that the generic
// normalizer cannot see: the nested source range.
type spectralEntry struct {
	Range struct {
		Start struct {
			Line int `json:"line"`
		} `json:"start"`
	} `json:"range"`
}

func normalizeEntry(entry json.RawMessage) (models.Violation, error) {
	v, err := models.NormalizeViolation(entry)
	if err != nil {
		return models.Violation{}, err
	}

	var sp spectralEntry
	if err := json.Unmarshal(entry, &sp); err == nil {
		if v.Line == 0 && sp.Range.Start.Line > 0 {
			// Spectral lines are zero-based.
			v.Line = sp.Range.Start.Line + 1
		}
	}
	return v, nil
}
