package review

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

func sampleFixes() []models.ProposedFix {
	return []models.ProposedFix{
		{FixID: "fix-0001", FilePath: "a.java", OriginalContent: "x", ProposedContent: "y"},
		{FixID: "fix-0002", FilePath: "b.java", OriginalContent: "x", ProposedContent: "z"},
		{FixID: "fix-0003", FilePath: "c.java", OriginalContent: "x", ProposedContent: "x"},
	}
}

func TestLedgerStartsPending(t *testing.T) {
	l := NewLedger(sampleFixes())

	sum := l.Summary()
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 3, sum.Pending)
	assert.Len(t, l.Pending(), 3)
	assert.Empty(t, l.Approved())
}

func TestLedgerDecisions(t *testing.T) {
	l := NewLedger(sampleFixes())

	require.NoError(t, l.Approve("fix-0001"))
	require.NoError(t, l.Reject("fix-0002"))
	require.NoError(t, l.Skip("fix-0003"))

	sum := l.Summary()
	assert.Equal(t, 1, sum.Approved)
	assert.Equal(t, 1, sum.Rejected)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 0, sum.Pending)
	assert.Equal(t, sum.Total, sum.Pending+sum.Approved+sum.Rejected+sum.Skipped)

	approved := l.Approved()
	require.Len(t, approved, 1)
	assert.Equal(t, "fix-0001", approved[0].FixID)
}

func TestLedgerUnknownFixID(t *testing.T) {
	l := NewLedger(sampleFixes())

	assert.Error(t, l.Approve("fix-9999"))
	assert.Error(t, l.Reject("nope"))
	assert.Error(t, l.Skip(""))
	assert.Error(t, l.Comment("nope", "c"))

	_, err := l.Decision("nope")
	assert.Error(t, err)
}

func TestLedgerRevision(t *testing.T) {
	l := NewLedger(sampleFixes())

	require.NoError(t, l.Approve("fix-0001"))
	require.NoError(t, l.Reject("fix-0001"))

	d, err := l.Decision("fix-0001")
	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, d)
}

func TestApproveAllOnlyTouchesPending(t *testing.T) {
	l := NewLedger(sampleFixes())
	require.NoError(t, l.Reject("fix-0002"))

	l.ApproveAll()

	sum := l.Summary()
	assert.Equal(t, 2, sum.Approved)
	assert.Equal(t, 1, sum.Rejected)
	assert.Equal(t, 0, sum.Pending)
}

func TestRejectAllOnlyTouchesPending(t *testing.T) {
	l := NewLedger(sampleFixes())
	require.NoError(t, l.Approve("fix-0001"))

	l.RejectAll()

	sum := l.Summary()
	assert.Equal(t, 1, sum.Approved)
	assert.Equal(t, 2, sum.Rejected)
}

func TestApproveChanged(t *testing.T) {
	l := NewLedger(sampleFixes())

	l.ApproveChanged()

	sum := l.Summary()
	// fix-0003 has identical content and gets skipped
	assert.Equal(t, 2, sum.Approved)
	assert.Equal(t, 1, sum.Skipped)

	d, _ := l.Decision("fix-0003")
	assert.Equal(t, models.DecisionSkipped, d)
}

func TestSummaryInvariantUnderRandomOps(t *testing.T) {
	l := NewLedger(sampleFixes())

	ops := []func() error{
		func() error { return l.Approve("fix-0001") },
		func() error { return l.Reject("fix-0001") },
		func() error { return l.Skip("fix-0002") },
		func() error { return l.Approve("fix-0003") },
	}
	for _, op := range ops {
		require.NoError(t, op())
		sum := l.Summary()
		assert.Equal(t, sum.Total, sum.Pending+sum.Approved+sum.Rejected+sum.Skipped)
	}
}

func TestSaveAndRestore(t *testing.T) {
	l := NewLedger(sampleFixes())
	require.NoError(t, l.Approve("fix-0001"))
	require.NoError(t, l.Skip("fix-0002"))
	require.NoError(t, l.Comment("fix-0001", "looks right"))

	path := filepath.Join(t.TempDir(), "review.json")
	require.NoError(t, Save(l, path))

	rec, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionApproved, rec.Decisions["fix-0001"])
	assert.Equal(t, models.DecisionSkipped, rec.Decisions["fix-0002"])
	assert.Equal(t, models.DecisionPending, rec.Decisions["fix-0003"])
	require.Len(t, rec.Comments, 1)
	assert.Equal(t, "looks right", rec.Comments[0].Comment)

	restored := NewLedger(sampleFixes())
	Restore(restored, rec)
	d, _ := restored.Decision("fix-0001")
	assert.Equal(t, models.DecisionApproved, d)
	assert.Equal(t, l.Summary(), restored.Summary())
}

func TestMarkdownReport(t *testing.T) {
	l := NewLedger(sampleFixes())
	require.NoError(t, l.Approve("fix-0001"))
	require.NoError(t, l.Comment("fix-0001", "ship it"))

	md := MarkdownReport(l)
	assert.Contains(t, md, "# Fix Review")
	assert.Contains(t, md, "| fix-0001 | a.java |")
	assert.Contains(t, md, "approved")
	assert.Contains(t, md, "ship it")
}
