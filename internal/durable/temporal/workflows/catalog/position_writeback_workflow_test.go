package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	catalogactivities "github.com/Apurer/go-gin-menu-builder/internal/platform/temporal/activities/catalog"
)

type flakyRepo struct {
	mu      sync.Mutex
	failing map[string]bool
	deleted map[string]bool
	calls   map[string]int
}

func (r *flakyRepo) ListItems(context.Context, string) ([]catalogdomain.MenuItem, error) {
	return nil, nil
}

func (r *flakyRepo) UpsertItem(context.Context, catalogdomain.MenuItem) error {
	return errors.New("position write-back must not upsert rows")
}

func (r *flakyRepo) UpdatePosition(_ context.Context, _ string, id string, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[id]++
	if r.deleted[id] {
		return catalogports.ErrNotFound
	}
	if r.failing[id] {
		return errors.New("row locked")
	}
	return nil
}

func (r *flakyRepo) DeleteItem(context.Context, string, string) error { return nil }

func TestPositionWriteBackWorkflow_ReportsFailuresWithoutRetry(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := &flakyRepo{failing: map[string]bool{"b": true}, calls: map[string]int{}}
	activities := catalogactivities.NewActivities(repo)
	env.RegisterWorkflowWithOptions(PositionWriteBackWorkflow, workflow.RegisterOptions{Name: PositionWriteBackWorkflowName})
	env.RegisterActivityWithOptions(activities.PersistPosition, activity.RegisterOptions{Name: catalogactivities.PersistPositionActivityName})

	input := PositionWriteBackWorkflowInput{Command: catalogtypes.WriteBackInput{
		OperatorID: "op",
		Reason:     "reorder",
		Items: []catalogdomain.MenuItem{
			{ID: "a", OperatorID: "op", Name: "Coffee", Position: 0},
			{ID: "b", OperatorID: "op", Name: "Tea", Position: 1},
			{ID: "c", OperatorID: "op", Name: "Cake", Position: 2},
		},
	}}
	env.ExecuteWorkflow(PositionWriteBackWorkflowName, input)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var report catalogdomain.WriteBackReport
	require.NoError(t, env.GetWorkflowResult(&report))
	assert.Equal(t, 3, report.Attempted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "b", report.Failures[0].ItemID)
	assert.Equal(t, 1, repo.calls["b"])
}

func TestPositionWriteBackWorkflow_SkipsDeletedItems(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := &flakyRepo{failing: map[string]bool{}, deleted: map[string]bool{"a": true}, calls: map[string]int{}}
	activities := catalogactivities.NewActivities(repo)
	env.RegisterWorkflowWithOptions(PositionWriteBackWorkflow, workflow.RegisterOptions{Name: PositionWriteBackWorkflowName})
	env.RegisterActivityWithOptions(activities.PersistPosition, activity.RegisterOptions{Name: catalogactivities.PersistPositionActivityName})

	input := PositionWriteBackWorkflowInput{Command: catalogtypes.WriteBackInput{
		OperatorID: "op",
		Reason:     "reorder",
		Items: []catalogdomain.MenuItem{
			{ID: "a", OperatorID: "op", Name: "Cake", Position: 0},
			{ID: "b", OperatorID: "op", Name: "Tea", Position: 1},
		},
	}}
	env.ExecuteWorkflow(PositionWriteBackWorkflowName, input)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var report catalogdomain.WriteBackReport
	require.NoError(t, env.GetWorkflowResult(&report))
	assert.Empty(t, report.Failures)
	assert.Equal(t, []string{"a"}, report.Skipped)
	assert.Equal(t, 1, report.Succeeded())
}
