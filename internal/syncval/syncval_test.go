package syncval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

func entryFor(t *testing.T, report models.SyncReport, specFile, codeFile string) models.SyncEntry {
	t.Helper()
	for _, e := range report.Entries {
		if e.SpecFile == specFile && e.CodeFile == codeFile {
			return e
		}
	}
	t.Fatalf("no entry for pair (%q, %q)", specFile, codeFile)
	return models.SyncEntry{}
}

func TestValidateMappedRulesOnBothSides(t *testing.T) {
	v := New()

	spec := []models.Violation{
		{Rule: "uuid-resource-ids", File: "openapi.yaml", Path: "paths./users/{id}"},
	}
	code := []models.Violation{
		{Rule: "pathVariablesShouldBeUUID", File: "src/main/java/com/example/UserController.java"},
	}

	report := v.Validate(spec, code)

	e := entryFor(t, report, "openapi.yaml", "src/main/java/com/example/UserController.java")
	assert.Equal(t, models.SyncBothWrong, e.Status)
	assert.Equal(t, []string{"uuid-resource-ids"}, e.SharedRules)
	assert.Equal(t, 1, report.Summary.BothWrong)
	assert.Zero(t, report.Summary.Conflict)
}

func TestValidateDisjointRulesConflict(t *testing.T) {
	v := New()

	report := v.Validate(
		[]models.Violation{{Rule: "kebab-case-paths", File: "openapi.yaml"}},
		[]models.Violation{{Rule: "pathVariablesShouldBeUUID", File: "UserController.java"}},
	)

	e := entryFor(t, report, "openapi.yaml", "UserController.java")
	assert.Equal(t, models.SyncConflict, e.Status)
	assert.Empty(t, e.SharedRules)
	assert.Contains(t, e.Detail, "manual review")
	assert.Equal(t, 1, report.Summary.Conflict)
}

func TestValidateImplementationOnlyRulesNeverShared(t *testing.T) {
	v := New()

	// The code side breaks only a rule with no specification equivalent,
	// so the pair cannot be compatible even though both sides are flagged.
	report := v.Validate(
		[]models.Violation{{Rule: "plural-resources", File: "openapi.yaml"}},
		[]models.Violation{{Rule: "controllerNamingConvention", File: "OrderCtrl.java"}},
	)

	e := entryFor(t, report, "openapi.yaml", "OrderCtrl.java")
	assert.Equal(t, models.SyncConflict, e.Status)
	assert.Empty(t, e.SharedRules)
}

func TestValidateSpecCleanCodeFlagged(t *testing.T) {
	v := New()

	report := v.Validate(nil, []models.Violation{
		{Rule: "controllerNamingConvention", File: "OrderCtrl.java"},
	})

	e := entryFor(t, report, "", "OrderCtrl.java")
	assert.Equal(t, models.SyncCodeOnly, e.Status)
	assert.Contains(t, e.Detail, "no related specification artifact")
}

func TestValidateNoRelatedImplementationArtifact(t *testing.T) {
	v := New(WithRelator(func(string, []string) []string { return nil }))

	report := v.Validate(
		[]models.Violation{{Rule: "plural-resources", File: "openapi.yaml"}},
		[]models.Violation{{Rule: "pluralResourceNaming", File: "C.java"}},
	)

	e := entryFor(t, report, "openapi.yaml", "")
	assert.Equal(t, models.SyncSpecOnly, e.Status)
	assert.Contains(t, e.Detail, "no related implementation artifact")

	// The unclaimed implementation artifact still surfaces.
	c := entryFor(t, report, "", "C.java")
	assert.Equal(t, models.SyncCodeOnly, c.Status)
}

func TestValidateCleanImplementationInPair(t *testing.T) {
	v := New(WithRelator(func(string, []string) []string {
		return []string{"CleanController.java"}
	}))

	report := v.Validate(
		[]models.Violation{{Rule: "plural-resources", File: "openapi.yaml"}},
		nil,
	)

	e := entryFor(t, report, "openapi.yaml", "CleanController.java")
	assert.Equal(t, models.SyncSpecOnly, e.Status)
	assert.Contains(t, e.Detail, "implementation is clean")
}

func TestSummaryCountsPartitionPairs(t *testing.T) {
	v := New()

	report := v.Validate(
		[]models.Violation{
			{Rule: "plural-resources", File: "openapi.yaml"},
			{Rule: "no-verbs-in-url", File: "billing.yaml"},
		},
		[]models.Violation{
			{Rule: "pluralResourceNaming", File: "A.java"},
			{Rule: "getMethodsNoRequestBody", File: "B.java"},
		},
	)

	s := report.Summary
	assert.Equal(t, len(report.Entries), s.Total)
	assert.Equal(t, s.Total, s.InSync+s.SpecOnly+s.CodeOnly+s.BothWrong+s.Conflict)
}

func TestValidateDeterministicOrder(t *testing.T) {
	v := New()
	spec := []models.Violation{
		{Rule: "plural-resources", File: "b.yaml"},
		{Rule: "kebab-case-paths", File: "a.yaml"},
	}
	code := []models.Violation{
		{Rule: "getMethodsNoRequestBody", File: "Z.java"},
		{Rule: "pluralResourceNaming", File: "A.java"},
	}

	first := v.Validate(spec, code)
	for i := 0; i < 5; i++ {
		again := v.Validate(spec, code)
		require.Equal(t, len(first.Entries), len(again.Entries))
		for j := range first.Entries {
			assert.Equal(t, first.Entries[j].SpecFile, again.Entries[j].SpecFile)
			assert.Equal(t, first.Entries[j].CodeFile, again.Entries[j].CodeFile)
		}
	}
}

func TestRecommendations(t *testing.T) {
	v := New()

	report := v.Validate(
		[]models.Violation{{Rule: "plural-resources", File: "openapi.yaml"}},
		[]models.Violation{{Rule: "pluralResourceNaming", File: "C.java"}},
	)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "fix the specification first")
}

func TestSharedRulesIntersection(t *testing.T) {
	v := New()

	shared := v.sharedRules(
		[]models.Violation{
			{Rule: "plural-resources"},
			{Rule: "uuid-resource-ids"},
			{Rule: "kebab-case-paths"},
		},
		[]models.Violation{
			{Rule: "pluralResourceNaming"},
			{Rule: "pathVariablesShouldBeUUID"},
			{Rule: "controllerNamingConvention"}, // unmapped, correlates to nothing
			{Rule: "getMethodsNoRequestBody"},    // mapped but spec side is clean for it
		},
	)

	assert.Equal(t, []string{"plural-resources", "uuid-resource-ids"}, shared)
}
