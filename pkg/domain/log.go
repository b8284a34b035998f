package domain

import "time"

// LogKind classifies a log entry for the reporting sink.
type LogKind int

const (
	LogInfo LogKind = iota
	LogDebug
	LogSuccess
	LogFailure
)

// String returns the lowercase kind name.
func (k LogKind) String() string {
	switch k {
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	case LogSuccess:
		return "success"
	case LogFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// LogEntry is one line of the execution report, tagged with the nesting
// depth it was emitted at. Elapsed is zero for entries that do not time
// anything (scope markers, diagnostics).
type LogEntry struct {
	Depth   int           `json:"depth"`
	Kind    LogKind       `json:"kind"`
	Message string        `json:"message"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
}
