package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	catalogapp "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	catalogworkflows "github.com/Apurer/go-gin-menu-builder/internal/durable/temporal/workflows/catalog"
)

var (
	_ ports.WriteBackOrchestrator = (*TemporalWriteBack)(nil)
	_ ports.WriteBackOrchestrator = (*InlineWriteBack)(nil)
)

// TemporalWriteBack runs position write-backs as Temporal workflows.
type TemporalWriteBack struct {
	client    client.Client
	taskQueue string
}

func NewTemporalWriteBack(c client.Client) *TemporalWriteBack {
	return &TemporalWriteBack{client: c, taskQueue: catalogworkflows.PositionWriteBackTaskQueue}
}

// WriteBack starts the workflow and waits for its report.
func (o *TemporalWriteBack) WriteBack(ctx context.Context, input catalogtypes.WriteBackInput) (domain.WriteBackReport, error) {
	if o == nil || o.client == nil {
		return domain.WriteBackReport{}, errors.New("temporal write-back not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildWriteBackWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		catalogworkflows.PositionWriteBackWorkflowName,
		catalogworkflows.PositionWriteBackWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return domain.WriteBackReport{}, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var report domain.WriteBackReport
	if err := run.Get(ctx, &report); err != nil {
		return domain.WriteBackReport{}, err
	}
	return report, nil
}

// InlineWriteBack issues the writes in-process, used when Temporal is unavailable.
type InlineWriteBack struct {
	repo ports.Repository
}

func NewInlineWriteBack(repo ports.Repository) *InlineWriteBack {
	return &InlineWriteBack{repo: repo}
}

func (o *InlineWriteBack) WriteBack(ctx context.Context, input catalogtypes.WriteBackInput) (domain.WriteBackReport, error) {
	if o == nil || o.repo == nil {
		return domain.WriteBackReport{}, errors.New("inline write-back not configured")
	}
	return catalogapp.WritePositions(ctx, o.repo, input.Items), nil
}

// buildWriteBackWorkflowID derives an id from the batch so a replayed start is deduplicated.
func buildWriteBackWorkflowID(input catalogtypes.WriteBackInput, traceComponent string) string {
	var b strings.Builder
	b.WriteString(input.OperatorID)
	for _, item := range input.Items {
		fmt.Fprintf(&b, "|%s:%d", item.ID, item.Position)
	}
	return fmt.Sprintf("catalog-positions-%s-%s", hashBatch(b.String()), traceComponent)
}

func hashBatch(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
