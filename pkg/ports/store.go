// Package ports declares the boundaries between the engine core and its
// external collaborators.
package ports

import (
	"context"

	"github.com/seedbed/espalier/pkg/domain"
)

// ReportStore persists scenario reports. The core itself keeps no state;
// persistence is a collaborator's concern.
type ReportStore interface {
	// Save persists the report under its scenario name, replacing any
	// previous report for the same scenario.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves the report for a scenario, or domain.ErrReportNotFound.
	Load(ctx context.Context, scenario string) (*domain.Report, error)

	// Delete removes a scenario's report. Deleting an absent report is not
	// an error.
	Delete(ctx context.Context, scenario string) error

	// List returns the names of scenarios with a stored report.
	List(ctx context.Context) ([]string, error)
}
