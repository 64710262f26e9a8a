// Package syncval cross-checks the API specification findings against
// the implementation findings to detect drift between the two.
package syncval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// RuleMapping pairs each implementation-side rule with its specification
// counterpart. A nil value marks an implementation-only check with no
// specification equivalent.
var RuleMapping = map[string]*string{
	"pluralResourceNaming":               ptr("plural-resources"),
	"noVerbsInMapping":                   ptr("no-verbs-in-url"),
	"pathVariablesShouldBeUUID":          ptr("uuid-resource-ids"),
	"postMethodsShouldReturn201":         ptr("post-create-returns-201"),
	"paginatedEndpointsUsePageable":      ptr("pagination-parameter-naming"),
	"getMethodsNoRequestBody":            ptr("get-no-request-body"),
	"requestMappingsKebabCase":           ptr("kebab-case-paths"),
	"requestParamsCamelCase":             ptr("request-fields-camelcase"),
	"controllerMethodsReturnProperTypes": ptr("response-envelope"),
	"noTrailingSlashes":                  ptr("no-trailing-slash"),
	"propertyNamesCamelCase":             ptr("camel-case-properties"),
	"versionedApiPaths":                  ptr("path-version-prefix"),
	"standardErrorResponses":             ptr("operation-error-response"),
	"classLevelRequestMapping":           nil,
	"controllerNamingConvention":         nil,
	"controllersInCorrectPackage":        nil,
	"serviceMethodsAreTransactional":     nil,
}

func ptr(s string) *string { return &s }

// Relator returns the implementation artifacts related to one
// specification document, from the set of artifacts the implementation
// checker flagged.
type Relator func(specFile string, codeFiles []string) []string

// AllFilesRelated relates every implementation artifact to each
// specification document. This fits the common layout of one OpenAPI
// document implemented by many controllers; swap in content-based
// detection via WithRelator when path-to-controller matching is
// available.
func AllFilesRelated(_ string, codeFiles []string) []string {
	return codeFiles
}

// Validator computes the sync report.
type Validator struct {
	mapping map[string]*string
	relate  Relator
}

// Option configures a Validator.
type Option func(*Validator)

// WithMapping replaces the built-in rule mapping.
func WithMapping(m map[string]*string) Option {
	return func(v *Validator) {
		v.mapping = m
	}
}

// WithRelator replaces the artifact relator.
func WithRelator(r Relator) Option {
	return func(v *Validator) {
		v.relate = r
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		mapping: RuleMapping,
		relate:  AllFilesRelated,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate pairs each flagged specification document with its related
// implementation artifacts and classifies every pair:
//
//	in_sync     neither side of the pair is flagged
//	spec_only   the specification is flagged, the implementation is clean
//	code_only   the implementation is flagged, the specification is clean
//	both_wrong  both flagged and they share an equivalence-mapped rule,
//	            so one coordinated fix likely resolves both layers
//	conflict    both flagged on disjoint rules, the layers disagree about
//	            what is wrong and need manual review
//
// Specification documents with no related implementation artifact, and
// flagged implementation artifacts no pair claims, are reported with an
// explicit no-related-artifact reason rather than dropped. Every pair
// considered lands in exactly one entry.
func (v *Validator) Validate(specViolations, codeViolations []models.Violation) models.SyncReport {
	specByFile := models.GroupByFile(specViolations)
	codeByFile := models.GroupByFile(codeViolations)

	specFiles := sortedKeys(specByFile)
	codeFiles := sortedKeys(codeByFile)

	var report models.SyncReport
	claimed := make(map[string]bool)

	for _, specFile := range specFiles {
		sv := specByFile[specFile]
		related := v.relate(specFile, codeFiles)

		if len(related) == 0 {
			report.Entries = append(report.Entries, models.SyncEntry{
				SpecFile:       specFile,
				Status:         models.SyncSpecOnly,
				SpecViolations: sv,
				Detail:         "no related implementation artifact found",
			})
			continue
		}

		for _, codeFile := range related {
			claimed[codeFile] = true
			cv := codeByFile[codeFile]

			entry := models.SyncEntry{
				SpecFile:       specFile,
				CodeFile:       codeFile,
				SpecViolations: sv,
				CodeViolations: cv,
			}
			switch {
			case len(sv) == 0 && len(cv) == 0:
				entry.Status = models.SyncInSync
			case len(cv) == 0:
				entry.Status = models.SyncSpecOnly
				entry.Detail = "the specification has violations but the implementation is clean"
			case len(sv) == 0:
				entry.Status = models.SyncCodeOnly
				entry.Detail = "the implementation has violations but the specification is clean"
			default:
				shared := v.sharedRules(sv, cv)
				if len(shared) > 0 {
					entry.Status = models.SyncBothWrong
					entry.SharedRules = shared
					entry.Detail = "both layers break the same rule(s): " + strings.Join(shared, ", ")
				} else {
					entry.Status = models.SyncConflict
					entry.Detail = "the two layers break unrelated rules, manual review required"
				}
			}
			report.Entries = append(report.Entries, entry)
		}
	}

	// Flagged implementation artifacts no specification pair claimed.
	for _, codeFile := range codeFiles {
		if claimed[codeFile] {
			continue
		}
		report.Entries = append(report.Entries, models.SyncEntry{
			CodeFile:       codeFile,
			Status:         models.SyncCodeOnly,
			CodeViolations: codeByFile[codeFile],
			Detail:         "no related specification artifact found",
		})
	}

	report.Summary = summarize(report.Entries)
	report.Recommendations = recommend(report.Summary)
	return report
}

// sharedRules maps the implementation-side rules through the equivalence
// table and intersects them with the specification-side rules. Rules
// without a mapping correlate to nothing.
func (v *Validator) sharedRules(spec, code []models.Violation) []string {
	specRules := make(map[string]bool, len(spec))
	for _, s := range spec {
		specRules[s.Rule] = true
	}

	sharedSet := make(map[string]bool)
	for _, c := range code {
		mapped := v.mapping[c.Rule]
		if mapped != nil && specRules[*mapped] {
			sharedSet[*mapped] = true
		}
	}

	shared := make([]string, 0, len(sharedSet))
	for r := range sharedSet {
		shared = append(shared, r)
	}
	sort.Strings(shared)
	return shared
}

func sortedKeys(m map[string][]models.Violation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func summarize(entries []models.SyncEntry) models.SyncSummary {
	s := models.SyncSummary{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case models.SyncInSync:
			s.InSync++
		case models.SyncSpecOnly:
			s.SpecOnly++
		case models.SyncCodeOnly:
			s.CodeOnly++
		case models.SyncBothWrong:
			s.BothWrong++
		case models.SyncConflict:
			s.Conflict++
		}
	}
	return s
}

func recommend(s models.SyncSummary) []string {
	var recs []string
	if s.BothWrong > 0 {
		recs = append(recs, fmt.Sprintf("%d artifact pair(s) fail on both sides: fix the specification first, then regenerate or update the implementation", s.BothWrong))
	}
	if s.Conflict > 0 {
		recs = append(recs, fmt.Sprintf("%d artifact pair(s) conflict: the layers disagree about what is wrong, inspect both reports manually", s.Conflict))
	}
	if s.SpecOnly > 0 {
		recs = append(recs, fmt.Sprintf("%d artifact pair(s) fail only in the specification: the contract has drifted behind the implementation", s.SpecOnly))
	}
	if s.CodeOnly > 0 {
		recs = append(recs, fmt.Sprintf("%d artifact pair(s) fail only in the implementation: the code has drifted behind the contract", s.CodeOnly))
	}
	if len(recs) == 0 && s.Total > 0 {
		recs = append(recs, "specification and implementation are in sync for every artifact pair")
	}
	return recs
}
