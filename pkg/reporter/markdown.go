package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/seedbed/espalier/pkg/domain"
)

// Markdown renders a report as a markdown document, suitable for CI
// summaries or archiving next to persisted reports.
func Markdown(report *domain.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Scenario: %s\n\n", report.Scenario)
	if report.Success {
		sb.WriteString("**Result:** passed\n\n")
	} else {
		fmt.Fprintf(&sb, "**Result:** failed — %s\n\n", report.Failure)
	}
	fmt.Fprintf(&sb, "- Seed: `%d`\n", report.Seed)
	fmt.Fprintf(&sb, "- Started: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Duration: %s\n\n", report.Duration)

	sb.WriteString("## Log\n\n```\n")
	for _, entry := range report.Logs {
		indent := strings.Repeat("   ", entry.Depth)
		if entry.Elapsed > 0 {
			fmt.Fprintf(&sb, "%s[%s] %s (%s)\n", indent, entry.Kind, entry.Message, entry.Elapsed)
		} else {
			fmt.Fprintf(&sb, "%s[%s] %s\n", indent, entry.Kind, entry.Message)
		}
	}
	sb.WriteString("```\n")

	return sb.String()
}

// NewTermRenderer returns a function that renders the markdown summary for
// a terminal using glamour, auto-detecting the background style.
func NewTermRenderer() func(*domain.Report) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(report *domain.Report) (string, error) {
		return r.Render(Markdown(report))
	}
}
