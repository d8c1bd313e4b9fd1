package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/mocks"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/memory"
	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	catalogworkflows "github.com/Apurer/go-gin-menu-builder/internal/durable/temporal/workflows/catalog"
)

func TestInlineWriteBack_PersistsEveryItem(t *testing.T) {
	repo := memory.NewRepository(
		domain.MenuItem{ID: "a", OperatorID: "op", Name: "Coffee", PriceMinor: 20000, Position: 0},
		domain.MenuItem{ID: "b", OperatorID: "op", Name: "Tea", PriceMinor: 15000, Position: 1},
	)
	orchestrator := NewInlineWriteBack(repo)

	report, err := orchestrator.WriteBack(context.Background(), catalogtypes.WriteBackInput{
		OperatorID: "op",
		Items: []domain.MenuItem{
			{ID: "a", OperatorID: "op", Name: "Coffee", Position: 1},
			{ID: "b", OperatorID: "op", Name: "Tea", Position: 0},
			{ID: "gone", OperatorID: "op", Name: "Cake", Position: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Attempted)
	assert.Empty(t, report.Failures)
	assert.Equal(t, []string{"gone"}, report.Skipped)

	items, err := repo.ListItems(context.Background(), "op")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, int64(15000), items[0].PriceMinor)
	assert.Equal(t, "a", items[1].ID)
}

func TestBuildWriteBackWorkflowID_IsDeterministicPerBatch(t *testing.T) {
	input := catalogtypes.WriteBackInput{OperatorID: "op", Items: []domain.MenuItem{{ID: "a", Position: 1}}}
	first := buildWriteBackWorkflowID(input, "trace")
	assert.Equal(t, first, buildWriteBackWorkflowID(input, "trace"))

	input.Items[0].Position = 2
	assert.NotEqual(t, first, buildWriteBackWorkflowID(input, "trace"))
}

func TestTemporalWriteBack_RequiresClient(t *testing.T) {
	var orchestrator *TemporalWriteBack
	_, err := orchestrator.WriteBack(context.Background(), catalogtypes.WriteBackInput{})
	assert.Error(t, err)
}

func TestTemporalWriteBack_AttachesToAlreadyStartedRun(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, catalogworkflows.PositionWriteBackWorkflowName, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"))
	c.On("GetWorkflow", mock.Anything, mock.Anything, "run-1").Return(run)
	run.On("Get", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*domain.WriteBackReport) = domain.WriteBackReport{Attempted: 2}
		}).
		Return(nil)

	report, err := NewTemporalWriteBack(c).WriteBack(context.Background(), catalogtypes.WriteBackInput{
		OperatorID: "op",
		Items:      []domain.MenuItem{{ID: "a", Position: 0}, {ID: "b", Position: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempted)
	c.AssertExpectations(t)
	run.AssertExpectations(t)
}
