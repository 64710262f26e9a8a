package proposer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// The OpenAPI strategies parse the document with yaml.v3 to locate the
// offending nodes, then patch the original text line by line. Editing
// lines instead of re-marshaling keeps the rest of the document
// byte-identical, so review diffs show only the actual fix.

type lineEdit struct {
	line        int // 1-based
	replacement string
	insert      bool // insert after line instead of replacing it
}

func applyEdits(content string, edits []lineEdit) string {
	if len(edits) == 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	sort.Slice(edits, func(i, j int) bool { return edits[i].line > edits[j].line })
	for _, e := range edits {
		idx := e.line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		if e.insert {
			lines = append(lines[:idx+1], append([]string{e.replacement}, lines[idx+1:]...)...)
		} else {
			lines[idx] = e.replacement
		}
	}
	return strings.Join(lines, "\n")
}

func parseDoc(content string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document is not a mapping")
	}
	return doc.Content[0], nil
}

// mapValue returns the value node for a key in a mapping node.
func mapValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// eachEntry visits key/value pairs of a mapping node.
func eachEntry(n *yaml.Node, fn func(key, value *yaml.Node)) {
	if n == nil || n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		fn(n.Content[i], n.Content[i+1])
	}
}

// KebabCasePaths rewrites camelCase and snake_case path segments to
// kebab-case.
type KebabCasePaths struct{}

func (s *KebabCasePaths) Rules() []string {
	return []string{"kebab-case-paths", "requestMappingsKebabCase"}
}

func (s *KebabCasePaths) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "kebab-case-paths",
		Description: "Rewrite path segments to kebab-case",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "Path segments use kebab-case per the URL style rules",
	}
}

func (s *KebabCasePaths) Apply(path, content string, violations []models.Violation) (string, error) {
	return rewritePathKeys(content, kebabPath)
}

// PluralResources pluralizes the final static segment of singular
// collection paths.
type PluralResources struct{}

func (s *PluralResources) Rules() []string {
	return []string{"plural-resources", "pluralResourceNaming"}
}

func (s *PluralResources) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "plural-resources",
		Description: "Pluralize resource path segments",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyReview,
		Explanation: "Renaming a path changes the public API surface",
	}
}

func (s *PluralResources) Apply(path, content string, violations []models.Violation) (string, error) {
	return rewritePathKeys(content, pluralizePath)
}

// rewritePathKeys applies a transform to every key under "paths" and
// patches the lines where a key changed.
func rewritePathKeys(content string, transform func(string) string) (string, error) {
	root, err := parseDoc(content)
	if err != nil {
		return "", err
	}
	paths := mapValue(root, "paths")
	if paths == nil {
		return "", fmt.Errorf("document has no paths object")
	}

	lines := strings.Split(content, "\n")
	var edits []lineEdit
	eachEntry(paths, func(key, _ *yaml.Node) {
		fixed := transform(key.Value)
		if fixed == key.Value {
			return
		}
		idx := key.Line - 1
		if idx < 0 || idx >= len(lines) {
			return
		}
		edits = append(edits, lineEdit{
			line:        key.Line,
			replacement: strings.Replace(lines[idx], key.Value, fixed, 1),
		})
	})
	if len(edits) == 0 {
		return "", fmt.Errorf("no path keys needed rewriting")
	}
	return applyEdits(content, edits), nil
}

// kebabPath converts static segments of a path to kebab-case, leaving
// {parameters} untouched.
func kebabPath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		segments[i] = kebabCase(seg)
	}
	return strings.Join(segments, "/")
}

func kebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// pluralizePath pluralizes the last static segment of the path.
func pluralizePath(p string) string {
	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		segments[i] = pluralize(seg)
		break
	}
	return strings.Join(segments, "/")
}

func pluralize(s string) string {
	switch {
	case strings.HasSuffix(s, "s"):
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(s[len(s)-2]):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"),
		strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"):
		return s + "es"
	default:
		return s + "s"
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// UUIDPathIDs adds format: uuid to string-typed path id parameters.
type UUIDPathIDs struct{}

func (s *UUIDPathIDs) Rules() []string {
	return []string{"uuid-resource-ids", "pathVariablesShouldBeUUID"}
}

func (s *UUIDPathIDs) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "uuid-resource-ids",
		Description: "Mark path id parameters as format: uuid",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "Resource identifiers are UUIDs",
	}
}

func (s *UUIDPathIDs) Apply(path, content string, violations []models.Violation) (string, error) {
	root, err := parseDoc(content)
	if err != nil {
		return "", err
	}

	var edits []lineEdit
	walkParameters(root, func(param *yaml.Node) {
		name := mapValue(param, "name")
		in := mapValue(param, "in")
		if name == nil || in == nil || in.Value != "path" {
			return
		}
		if !strings.HasSuffix(strings.ToLower(name.Value), "id") {
			return
		}
		schema := mapValue(param, "schema")
		if schema == nil {
			return
		}
		typ := mapValue(schema, "type")
		if typ == nil || typ.Value != "string" || mapValue(schema, "format") != nil {
			return
		}
		indent := strings.Repeat(" ", typ.Column-1)
		edits = append(edits, lineEdit{
			line:        typ.Line,
			replacement: indent + "format: uuid",
			insert:      true,
		})
	})
	if len(edits) == 0 {
		return "", fmt.Errorf("no path id parameters needed format: uuid")
	}
	return applyEdits(content, edits), nil
}

// walkParameters visits every parameter object in the document, both at
// path level and operation level.
func walkParameters(root *yaml.Node, fn func(*yaml.Node)) {
	paths := mapValue(root, "paths")
	eachEntry(paths, func(_, item *yaml.Node) {
		visitParams(mapValue(item, "parameters"), fn)
		eachEntry(item, func(_, op *yaml.Node) {
			visitParams(mapValue(op, "parameters"), fn)
		})
	})
	// components.parameters holds shared definitions
	if components := mapValue(root, "components"); components != nil {
		eachEntry(mapValue(components, "parameters"), func(_, param *yaml.Node) {
			fn(param)
		})
	}
}

func visitParams(seq *yaml.Node, fn func(*yaml.Node)) {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return
	}
	for _, param := range seq.Content {
		fn(param)
	}
}

// OperationDescriptions inserts a description on operations that lack
// one, derived from the summary or the method and path.
type OperationDescriptions struct{}

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"patch": true, "head": true, "options": true, "trace": true,
}

func (s *OperationDescriptions) Rules() []string {
	return []string{"operation-description-required"}
}

func (s *OperationDescriptions) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "operation-description-required",
		Description: "Add missing operation descriptions",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "Every operation carries a description",
	}
}

func (s *OperationDescriptions) Apply(path, content string, violations []models.Violation) (string, error) {
	root, err := parseDoc(content)
	if err != nil {
		return "", err
	}
	paths := mapValue(root, "paths")
	if paths == nil {
		return "", fmt.Errorf("document has no paths object")
	}

	var edits []lineEdit
	eachEntry(paths, func(pathKey, item *yaml.Node) {
		eachEntry(item, func(method, op *yaml.Node) {
			if !httpMethods[method.Value] || op.Kind != yaml.MappingNode {
				return
			}
			if mapValue(op, "description") != nil {
				return
			}
			desc := describeOperation(method.Value, pathKey.Value, mapValue(op, "summary"))
			indent := strings.Repeat(" ", op.Column-1)
			edits = append(edits, lineEdit{
				line:        method.Line,
				replacement: fmt.Sprintf("%sdescription: %s", indent, desc),
				insert:      true,
			})
		})
	})
	if len(edits) == 0 {
		return "", fmt.Errorf("every operation already has a description")
	}
	return applyEdits(content, edits), nil
}

func describeOperation(method, path string, summary *yaml.Node) string {
	if summary != nil && summary.Value != "" {
		return summary.Value + "."
	}
	return fmt.Sprintf("%s %s.", strings.ToUpper(method), path)
}

// CamelCaseProperties rewrites snake_case and kebab-case schema
// property names to camelCase.
type CamelCaseProperties struct{}

func (s *CamelCaseProperties) Rules() []string {
	return []string{"camel-case-properties", "propertyNamesCamelCase"}
}

func (s *CamelCaseProperties) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "camel-case-properties",
		Description: "Rewrite schema property names to camelCase",
		Complexity:  models.ComplexityModerate,
		Safety:      models.SafetyReview,
		Explanation: "Renaming a property changes the wire format consumers see",
	}
}

func (s *CamelCaseProperties) Apply(path, content string, violations []models.Violation) (string, error) {
	root, err := parseDoc(content)
	if err != nil {
		return "", err
	}

	lines := strings.Split(content, "\n")
	var edits []lineEdit
	walkSchemas(root, func(schema *yaml.Node) {
		eachEntry(mapValue(schema, "properties"), func(key, _ *yaml.Node) {
			fixed := camelCase(key.Value)
			if fixed == key.Value {
				return
			}
			idx := key.Line - 1
			if idx < 0 || idx >= len(lines) {
				return
			}
			edits = append(edits, lineEdit{
				line:        key.Line,
				replacement: strings.Replace(lines[idx], key.Value, fixed, 1),
			})
		})
	})
	if len(edits) == 0 {
		return "", fmt.Errorf("no property names needed rewriting")
	}
	return applyEdits(content, edits), nil
}

// walkSchemas visits every schema object reachable from
// components.schemas, including nested properties and array items.
func walkSchemas(root *yaml.Node, fn func(*yaml.Node)) {
	var visit func(n *yaml.Node)
	visit = func(n *yaml.Node) {
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		fn(n)
		eachEntry(mapValue(n, "properties"), func(_, prop *yaml.Node) {
			visit(prop)
		})
		visit(mapValue(n, "items"))
	}
	if components := mapValue(root, "components"); components != nil {
		eachEntry(mapValue(components, "schemas"), func(_, schema *yaml.Node) {
			visit(schema)
		})
	}
}

func camelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) < 2 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// VersionedPaths prefixes unversioned paths with /v1.
type VersionedPaths struct{}

var versionSegmentRe = regexp.MustCompile(`^/v\d+(/|$)`)

func (s *VersionedPaths) Rules() []string {
	return []string{"path-version-prefix", "versionedApiPaths"}
}

func (s *VersionedPaths) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "path-version-prefix",
		Description: "Prefix unversioned paths with /v1",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyReview,
		Explanation: "Adding a version prefix moves the public URL",
	}
}

func (s *VersionedPaths) Apply(path, content string, violations []models.Violation) (string, error) {
	return rewritePathKeys(content, func(p string) string {
		if versionSegmentRe.MatchString(p) {
			return p
		}
		return "/v1" + p
	})
}

// ErrorResponses adds a default error response to operations that only
// document success codes.
type ErrorResponses struct{}

func (s *ErrorResponses) Rules() []string {
	return []string{"operation-error-response", "standardErrorResponses"}
}

func (s *ErrorResponses) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "operation-error-response",
		Description: "Document a default error response on every operation",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "Clients need the error shape documented, not just the happy path",
	}
}

func (s *ErrorResponses) Apply(path, content string, violations []models.Violation) (string, error) {
	root, err := parseDoc(content)
	if err != nil {
		return "", err
	}
	paths := mapValue(root, "paths")
	if paths == nil {
		return "", fmt.Errorf("document has no paths object")
	}

	var edits []lineEdit
	eachEntry(paths, func(_, item *yaml.Node) {
		eachEntry(item, func(method, op *yaml.Node) {
			if !httpMethods[method.Value] || op.Kind != yaml.MappingNode {
				return
			}
			responses := mapValue(op, "responses")
			if responses == nil || responses.Kind != yaml.MappingNode || len(responses.Content) == 0 {
				return
			}
			if hasErrorResponse(responses) {
				return
			}
			indent := strings.Repeat(" ", responses.Content[0].Column-1)
			edits = append(edits, lineEdit{
				line: lastLine(responses),
				replacement: indent + "default:\n" +
					indent + "  description: Unexpected error",
				insert: true,
			})
		})
	})
	if len(edits) == 0 {
		return "", fmt.Errorf("every operation already documents an error response")
	}
	return applyEdits(content, edits), nil
}

func hasErrorResponse(responses *yaml.Node) bool {
	found := false
	eachEntry(responses, func(code, _ *yaml.Node) {
		if code.Value == "default" || strings.HasPrefix(code.Value, "4") || strings.HasPrefix(code.Value, "5") {
			found = true
		}
	})
	return found
}

// lastLine returns the highest line number spanned by the node.
func lastLine(n *yaml.Node) int {
	line := n.Line
	for _, c := range n.Content {
		if l := lastLine(c); l > line {
			line = l
		}
	}
	return line
}
