package catalog

import (
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/durable/temporal/sequences"
)

const (
	// PositionWriteBackWorkflowName is the public identifier for registering the workflow.
	PositionWriteBackWorkflowName = "catalog.workflows.PositionWriteBack"
	// PositionWriteBackTaskQueue is the queue consumed by the worker persisting positions.
	PositionWriteBackTaskQueue = "CATALOG_POSITIONS"
)

// PositionWriteBackWorkflowInput carries the items whose positions changed.
type PositionWriteBackWorkflowInput struct {
	Command catalogtypes.WriteBackInput
	TraceID string
}

// PositionWriteBackWorkflow persists a batch of position changes. Individual
// write failures end up in the report; the workflow itself succeeds.
func PositionWriteBackWorkflow(ctx workflow.Context, input PositionWriteBackWorkflowInput) (catalogdomain.WriteBackReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PositionWriteBackWorkflow started", withTraceID(input.TraceID, "operatorId", input.Command.OperatorID, "reason", input.Command.Reason)...)
	report := sequences.RunPositionWriteBackSequence(ctx, input.Command, input.TraceID)
	if len(report.Failures) > 0 {
		logger.Warn("PositionWriteBackWorkflow finished with failed writes", withTraceID(input.TraceID, "failed", len(report.Failures), "attempted", report.Attempted)...)
	} else {
		logger.Info("PositionWriteBackWorkflow completed", withTraceID(input.TraceID, "attempted", report.Attempted)...)
	}
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
