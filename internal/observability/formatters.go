package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/everwrite/essay-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReview outputs a human-readable summary of one review round.
func (p *Printer) PrintReview(resp *types.ReviewResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Overall:  %d/100 (%s)\n", resp.Review.OverallScore, resp.Review.Version))
	sb.WriteString(fmt.Sprintf("Change:   %s (%d changes)\n", resp.ChangeType, resp.ChangesCount))
	sb.WriteString("\n")

	for _, m := range resp.Review.Metrics {
		sb.WriteString(fmt.Sprintf("  %-12s %d\n", m.Label+":", m.Value))
	}
	for _, g := range resp.Review.SubGrades {
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", g.Label+":", g.Grade))
	}

	p.printBox("REVIEW", sb.String())
	p.PrintSuggestions(resp.Review.Suggestions)
}

// PrintSuggestions outputs the top pending suggestions.
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	count := len(suggestions)
	if count > maxItemsToShow {
		count = maxItemsToShow
	}
	for i := 0; i < count; i++ {
		s := suggestions[i]
		sb.WriteString(fmt.Sprintf("• [%s/%s] %s\n", s.Category, s.Priority, s.Title))
		sb.WriteString(fmt.Sprintf("  %q → %q\n", s.OriginalText, s.Replacement))
	}
	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(suggestions)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("SUGGESTIONS (%d)", len(suggestions)), sb.String())
}

// PrintScoreHistory outputs the score progression, oldest first.
func (p *Printer) PrintScoreHistory(history []types.ReviewScore) {
	if len(history) == 0 {
		return
	}

	var sb strings.Builder
	for _, score := range history {
		sb.WriteString(fmt.Sprintf("%-4s %3d/100", score.Version, score.OverallScore))
		if !score.Timestamp.IsZero() {
			sb.WriteString("  " + score.Timestamp.Format("2006-01-02 15:04"))
		}
		sb.WriteString("\n")
	}

	p.printBox("SCORE HISTORY", sb.String())
}
