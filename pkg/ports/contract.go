package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedbed/espalier/pkg/domain"
)

// RunReportStoreContract verifies that a ReportStore implementation adheres
// to the interface contract. Adapter test suites call it against their
// concrete store.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	scenario := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := &domain.Report{
			Scenario:  scenario,
			Success:   true,
			Seed:      42,
			StartedAt: time.Now().UTC().Truncate(time.Second),
			Duration:  3 * time.Second,
			Logs: []domain.LogEntry{
				{Depth: 0, Kind: domain.LogInfo, Message: "scenario started"},
				{Depth: 1, Kind: domain.LogSuccess, Message: "a step", Elapsed: time.Millisecond},
			},
		}

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, scenario)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.Scenario, loaded.Scenario)
		assert.Equal(t, report.Success, loaded.Success)
		assert.EqualValues(t, 42, loaded.Seed)
		require.Len(t, loaded.Logs, 2)
		assert.Equal(t, 1, loaded.Logs[1].Depth)
		assert.Equal(t, domain.LogSuccess, loaded.Logs[1].Kind)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+scenario)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		first := &domain.Report{Scenario: scenario, Success: true}
		second := &domain.Report{Scenario: scenario, Success: false, Failure: "step 'x' failed"}
		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx, scenario)
		require.NoError(t, err)
		assert.False(t, loaded.Success)
		assert.Equal(t, "step 'x' failed", loaded.Failure)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Report{Scenario: scenario}))
		require.NoError(t, store.Delete(ctx, scenario))

		_, err := store.Load(ctx, scenario)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, scenario))
	})

	t.Run("List", func(t *testing.T) {
		s1 := scenario + "-1"
		s2 := scenario + "-2"
		require.NoError(t, store.Save(ctx, &domain.Report{Scenario: s1}))
		require.NoError(t, store.Save(ctx, &domain.Report{Scenario: s2}))
		defer func() {
			_ = store.Delete(ctx, s1)
			_ = store.Delete(ctx, s2)
		}()

		scenarios, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, scenarios, s1)
		assert.Contains(t, scenarios, s2)
	})
}
