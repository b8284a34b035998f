package domain

import (
	"time"

	"github.com/seedbed/espalier/pkg/session"
)

// RunState is the value threaded through step execution: the current
// session, the accumulated logs, the nesting depth, and the cleanup steps
// registered so far. Like Session it is treated as an immutable value;
// every method returns an updated copy.
type RunState struct {
	Session session.Session
	Logs    []LogEntry
	Depth   int
	Cleanup []Step
}

// NewRunState creates the initial state for a scenario.
func NewRunState(s session.Session) RunState {
	return RunState{Session: s}
}

// WithSession replaces the session.
func (rs RunState) WithSession(s session.Session) RunState {
	rs.Session = s
	return rs
}

// Log appends an entry at the current depth.
func (rs RunState) Log(kind LogKind, message string) RunState {
	return rs.appendLogs(LogEntry{Depth: rs.Depth, Kind: kind, Message: message})
}

// LogTimed appends an entry at the current depth carrying an elapsed time.
func (rs RunState) LogTimed(kind LogKind, message string, elapsed time.Duration) RunState {
	return rs.appendLogs(LogEntry{Depth: rs.Depth, Kind: kind, Message: message, Elapsed: elapsed})
}

func (rs RunState) appendLogs(entries ...LogEntry) RunState {
	logs := make([]LogEntry, 0, len(rs.Logs)+len(entries))
	logs = append(logs, rs.Logs...)
	logs = append(logs, entries...)
	rs.Logs = logs
	return rs
}

// RegisterCleanup appends steps that must run at scenario teardown,
// regardless of how the scenario ends.
func (rs RunState) RegisterCleanup(steps ...Step) RunState {
	cleanup := make([]Step, 0, len(rs.Cleanup)+len(steps))
	cleanup = append(cleanup, rs.Cleanup...)
	cleanup = append(cleanup, steps...)
	rs.Cleanup = cleanup
	return rs
}

// ForNested opens a fresh sub-scope for a wrapper step's nested run: one
// level deeper, empty log buffer, empty cleanup collector, same session.
// The parent merges the result back with MergeNested.
func (rs RunState) ForNested() RunState {
	return RunState{
		Session: rs.Session,
		Depth:   rs.Depth + 1,
	}
}

// MergeNested folds a nested run back into the parent: the nested session
// is adopted, nested logs are appended, and nested cleanup steps are
// propagated so they eventually run even if the parent step fails. The
// parent's depth is kept.
func (rs RunState) MergeNested(nested RunState) RunState {
	return rs.WithSession(nested.Session).
		appendLogs(nested.Logs...).
		RegisterCleanup(nested.Cleanup...)
}

// MergeNestedDiscardingSession folds a nested run's logs and cleanup steps
// into the parent while keeping the parent's session. Model-exploration
// runs use this so that one run's mutable state never leaks into the next.
func (rs RunState) MergeNestedDiscardingSession(nested RunState) RunState {
	return rs.appendLogs(nested.Logs...).RegisterCleanup(nested.Cleanup...)
}
