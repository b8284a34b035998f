package domain

import "time"

// Report is the final outcome of a scenario run, handed to reporting and
// persistence collaborators.
type Report struct {
	Scenario  string        `json:"scenario"`
	Success   bool          `json:"success"`
	Failure   string        `json:"failure,omitempty"`
	Logs      []LogEntry    `json:"logs"`
	Seed      int64         `json:"seed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
