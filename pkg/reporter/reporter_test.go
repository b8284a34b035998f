package reporter_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/reporter"
)

func sampleReport(success bool) *domain.Report {
	report := &domain.Report{
		Scenario: "checkout flow",
		Success:  success,
		Seed:     42,
		Duration: 120 * time.Millisecond,
		Logs: []domain.LogEntry{
			{Depth: 0, Kind: domain.LogInfo, Message: "eventually block with maxTime 1s and interval 100ms"},
			{Depth: 1, Kind: domain.LogSuccess, Message: "create cart", Elapsed: 10 * time.Millisecond},
			{Depth: 1, Kind: domain.LogDebug, Message: "register cleanup 'delete cart'"},
		},
	}
	if !success {
		report.Failure = "step 'pay' failed: card declined"
	}
	return report
}

func TestPrinter_IndentsByDepth(t *testing.T) {
	var buf bytes.Buffer
	p := reporter.NewPrinter(reporter.WithOutput(&buf))
	p.Print(sampleReport(true))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "checkout flow")
	assert.Contains(t, lines[0], "seed 42")
	assert.Contains(t, out, "   create cart (10ms)")
	assert.Contains(t, lines[len(lines)-1], "Scenario succeeded")

	// Non-terminal output carries no escape sequences.
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_Failure(t *testing.T) {
	var buf bytes.Buffer
	p := reporter.NewPrinter(reporter.WithOutput(&buf))
	p.Print(sampleReport(false))

	assert.Contains(t, buf.String(), "Scenario failed")
	assert.Contains(t, buf.String(), "card declined")
}

func TestMarkdown(t *testing.T) {
	md := reporter.Markdown(sampleReport(false))

	assert.Contains(t, md, "# Scenario: checkout flow")
	assert.Contains(t, md, "**Result:** failed")
	assert.Contains(t, md, "Seed: `42`")
	assert.Contains(t, md, "[success] create cart (10ms)")
}
