package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vraravam/api-governance-agent/internal/output"
	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Session walks a reviewer through pending fixes one at a time. Commands:
//
//	a  approve    r  reject    s  skip
//	c  comment    q  quit (remaining fixes stay pending)
//	aa approve all remaining   ra reject all remaining
type Session struct {
	ledger *Ledger
	diffs  map[string]models.FileDiff
	in     *bufio.Scanner
	out    io.Writer
}

// NewSession creates an interactive session over the ledger. Diffs are
// keyed by fix id and shown alongside each prompt.
func NewSession(ledger *Ledger, diffs []models.FileDiff, in io.Reader, out io.Writer) *Session {
	byID := make(map[string]models.FileDiff, len(diffs))
	for _, d := range diffs {
		byID[d.FixID] = d
	}
	return &Session{
		ledger: ledger,
		diffs:  byID,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run processes pending fixes in review order until every fix is decided
// or the reviewer quits. The final summary is always printed.
func (s *Session) Run() error {
	pending := s.ledger.Pending()
	total := len(pending)

	for i, fix := range pending {
		// A bulk command may have decided this fix already.
		if d, _ := s.ledger.Decision(fix.FixID); d != models.DecisionPending {
			continue
		}

		s.printFix(fix, i+1, total)

		done, err := s.promptLoop(fix)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	s.printSummary()
	return nil
}

// promptLoop reads commands for one fix until it is decided. Returns true
// when the session should end.
func (s *Session) promptLoop(fix models.ProposedFix) (bool, error) {
	for {
		fmt.Fprintf(s.out, "\n[a]pprove  [r]eject  [s]kip  [c]omment  [aa] approve all  [ra] reject all  [q]uit\n> ")
		if !s.in.Scan() {
			// EOF ends the session; undecided fixes stay pending.
			return true, s.in.Err()
		}
		cmd := strings.ToLower(strings.TrimSpace(s.in.Text()))

		switch cmd {
		case "a":
			return false, s.ledger.Approve(fix.FixID)
		case "r":
			return false, s.ledger.Reject(fix.FixID)
		case "s":
			return false, s.ledger.Skip(fix.FixID)
		case "c":
			fmt.Fprint(s.out, "comment: ")
			if !s.in.Scan() {
				return true, s.in.Err()
			}
			if err := s.ledger.Comment(fix.FixID, strings.TrimSpace(s.in.Text())); err != nil {
				return true, err
			}
		case "aa":
			s.ledger.ApproveAll()
			return true, nil
		case "ra":
			s.ledger.RejectAll()
			return true, nil
		case "q":
			return true, nil
		default:
			fmt.Fprintf(s.out, "unknown command %q\n", cmd)
		}
	}
}

func (s *Session) printFix(fix models.ProposedFix, n, total int) {
	bold := color.New(color.Bold)
	bold.Fprintf(s.out, "\n[%d/%d] %s  %s\n", n, total, fix.FixID, fix.FilePath)
	fmt.Fprintf(s.out, "rules: %s\n", strings.Join(fix.Rules(), ", "))
	if fix.Explanation != "" {
		fmt.Fprintf(s.out, "%s\n", fix.Explanation)
	}

	if d, ok := s.diffs[fix.FixID]; ok {
		s.printDiff(d)
	}
}

func (s *Session) printDiff(d models.FileDiff) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	for _, line := range strings.Split(d.UnifiedDiff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			cyan.Fprintln(s.out, line)
		case strings.HasPrefix(line, "@@"):
			cyan.Fprintln(s.out, line)
		case strings.HasPrefix(line, "+"):
			green.Fprintln(s.out, line)
		case strings.HasPrefix(line, "-"):
			red.Fprintln(s.out, line)
		default:
			fmt.Fprintln(s.out, line)
		}
	}
	sev := string(d.Severity)
	fmt.Fprintf(s.out, "(+%d -%d, severity %s)\n", d.Additions, d.Deletions, output.SeverityColor(sev, sev))
}

func (s *Session) printSummary() {
	sum := s.ledger.Summary()
	bold := color.New(color.Bold)
	bold.Fprintf(s.out, "\nReview complete: %d approved, %d rejected, %d skipped, %d pending\n",
		sum.Approved, sum.Rejected, sum.Skipped, sum.Pending)
}
