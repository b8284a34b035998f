package middleware

import (
	"context"
	"regexp"

	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/ports"
)

const mask = "***"

type redactionMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks substrings matching
// the patterns in log messages and failure text before persisting. Reports
// held in memory by the engine are untouched.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, report *domain.Report) error {
	// Clone so the caller's report keeps its original text.
	cloned := *report
	cloned.Failure = m.redact(report.Failure)
	cloned.Logs = make([]domain.LogEntry, len(report.Logs))
	for i, entry := range report.Logs {
		entry.Message = m.redact(entry.Message)
		cloned.Logs[i] = entry
	}

	return m.next.Save(ctx, &cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, scenario string) (*domain.Report, error) {
	return m.next.Load(ctx, scenario)
}

func (m *redactionMiddleware) Delete(ctx context.Context, scenario string) error {
	return m.next.Delete(ctx, scenario)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) redact(text string) string {
	for _, p := range m.patterns {
		text = p.ReplaceAllString(text, mask)
	}
	return text
}
