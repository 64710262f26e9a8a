package review

import (
	"fmt"
	"strings"
)

// MarkdownReport renders the ledger as a markdown summary suitable for
// attaching to a change request.
func MarkdownReport(l *Ledger) string {
	var b strings.Builder
	sum := l.Summary()

	b.WriteString("# Fix Review\n\n")
	fmt.Fprintf(&b, "%d fixes reviewed: %d approved, %d rejected, %d skipped, %d pending\n\n",
		sum.Total, sum.Approved, sum.Rejected, sum.Skipped, sum.Pending)

	b.WriteString("| Fix | File | Rules | Decision |\n")
	b.WriteString("|-----|------|-------|----------|\n")
	for _, f := range l.fixes {
		d := l.decisions[f.FixID]
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			f.FixID, f.FilePath, strings.Join(f.Rules(), ", "), d)
	}

	if len(l.comments) > 0 {
		b.WriteString("\n## Comments\n\n")
		for _, c := range l.comments {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n",
				c.FixID, c.Timestamp.Format("2006-01-02 15:04"), c.Comment)
		}
	}
	return b.String()
}
