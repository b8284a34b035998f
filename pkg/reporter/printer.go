// Package reporter renders scenario reports for humans: a depth-indented
// colorized console printer and a markdown summary renderer.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/seedbed/espalier/pkg/domain"
)

// Printer writes a report's log entries to a writer, indented by nesting
// depth and colorized by kind when the output is a terminal.
type Printer struct {
	out     io.Writer
	profile termenv.Profile
}

// PrinterOption configures the Printer.
type PrinterOption func(*Printer)

// WithOutput redirects the printer. Non-terminal outputs get plain text.
func WithOutput(out io.Writer) PrinterOption {
	return func(p *Printer) {
		p.out = out
		p.profile = termenv.Ascii
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			p.profile = termenv.ColorProfile()
		}
	}
}

// NewPrinter creates a printer targeting stdout.
func NewPrinter(opts ...PrinterOption) *Printer {
	p := &Printer{}
	WithOutput(os.Stdout)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print renders the full report.
func (p *Printer) Print(report *domain.Report) {
	header := fmt.Sprintf("Scenario: %s (seed %d)", report.Scenario, report.Seed)
	fmt.Fprintln(p.out, p.styled(header, domain.LogInfo))

	for _, entry := range report.Logs {
		fmt.Fprintln(p.out, p.formatEntry(entry))
	}

	footer := fmt.Sprintf("Scenario succeeded in %s", report.Duration)
	kind := domain.LogSuccess
	if !report.Success {
		footer = fmt.Sprintf("Scenario failed after %s: %s", report.Duration, report.Failure)
		kind = domain.LogFailure
	}
	fmt.Fprintln(p.out, p.styled(footer, kind))
}

func (p *Printer) formatEntry(entry domain.LogEntry) string {
	indent := strings.Repeat("   ", entry.Depth)
	line := indent + entry.Message
	if entry.Elapsed > 0 {
		line = fmt.Sprintf("%s (%s)", line, entry.Elapsed)
	}
	return p.styled(line, entry.Kind)
}

func (p *Printer) styled(line string, kind domain.LogKind) string {
	if p.profile == termenv.Ascii {
		return line
	}
	s := termenv.String(line)
	switch kind {
	case domain.LogSuccess:
		s = s.Foreground(p.profile.Color("2")) // green
	case domain.LogFailure:
		s = s.Foreground(p.profile.Color("1")) // red
	case domain.LogDebug:
		s = s.Faint()
	}
	return s.String()
}
