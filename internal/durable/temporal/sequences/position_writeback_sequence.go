package sequences

import (
	"slices"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	catalogactivities "github.com/Apurer/go-gin-menu-builder/internal/platform/temporal/activities/catalog"
)

// RunPositionWriteBackSequence schedules one write per item in parallel and
// collects every outcome. Writes are attempted once; failures are reported, not undone.
func RunPositionWriteBackSequence(ctx workflow.Context, input catalogtypes.WriteBackInput, traceID string) catalogdomain.WriteBackReport {
	logger := workflow.GetLogger(ctx)
	logger.Info("position write-back sequence started", "operatorId", input.OperatorID, "writes", len(input.Items))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	futures := make([]workflow.Future, 0, len(input.Items))
	for _, item := range input.Items {
		payload := catalogactivities.PersistPositionInput{Item: item, TraceID: traceID}
		futures = append(futures, workflow.ExecuteActivity(ctx, catalogactivities.PersistPositionActivityName, payload))
	}

	report := catalogdomain.WriteBackReport{Attempted: len(input.Items)}
	for idx, future := range futures {
		item := input.Items[idx]
		var result catalogactivities.PersistPositionResult
		if err := future.Get(ctx, &result); err != nil {
			report.Failures = append(report.Failures, catalogdomain.WriteFailure{ItemID: item.ID, Position: item.Position, Reason: err.Error()})
			continue
		}
		if result.Skipped {
			report.Skipped = append(report.Skipped, item.ID)
		}
	}
	slices.SortFunc(report.Failures, func(a, b catalogdomain.WriteFailure) int { return a.Position - b.Position })
	slices.Sort(report.Skipped)
	logger.Info("position write-back sequence completed", "operatorId", input.OperatorID, "failed", len(report.Failures), "skipped", len(report.Skipped))
	return report
}
