// Package memory provides an in-memory ReportStore, mainly for tests and
// single-process runs.
package memory

import (
	"context"
	"sync"

	"github.com/seedbed/espalier/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Report),
	}
}

// Save persists the report in memory, copying it so later mutations by the
// caller are not observable through the store.
func (s *Store) Save(_ context.Context, report *domain.Report) error {
	copied := *report
	copied.Logs = append([]domain.LogEntry(nil), report.Logs...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[report.Scenario] = &copied
	return nil
}

// Load retrieves a report copy from memory.
func (s *Store) Load(_ context.Context, scenario string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[scenario]
	if !ok {
		return nil, domain.ErrReportNotFound
	}

	ret := *report
	ret.Logs = append([]domain.LogEntry(nil), report.Logs...)
	return &ret, nil
}

// Delete removes a scenario's report.
func (s *Store) Delete(_ context.Context, scenario string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, scenario)
	return nil
}

// List returns the stored scenario names.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scenarios := make([]string, 0, len(s.data))
	for name := range s.data {
		scenarios = append(scenarios, name)
	}
	return scenarios, nil
}
