package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

const tracerName = "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Reload(ctx context.Context) ([]catalogdomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Reload")
	defer span.End()

	items, err := s.inner.Reload(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reload catalog")
	}
	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	s.logInfo(ctx, "catalog reloaded", slog.Int("catalog.items", len(items)))
	return items, nil
}

func (s *Service) ListItems(ctx context.Context, filter catalogtypes.ListFilter) ([]catalogdomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListItems", trace.WithAttributes(attribute.String("catalog.category", filter.Category)))
	defer span.End()

	items, err := s.inner.ListItems(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list items")
	}
	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (catalogdomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	item, err := s.inner.GetItem(ctx, id)
	if err != nil {
		return catalogdomain.MenuItem{}, s.handleError(ctx, span, err, "failed to load item", slog.String("item.id", id))
	}
	return item, nil
}

func (s *Service) CreateItem(ctx context.Context, input catalogtypes.CreateItemInput) (catalogdomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateItem", trace.WithAttributes(attribute.String("item.name", input.Name)))
	defer span.End()

	s.logInfo(ctx, "creating item", slog.String("item.name", input.Name))
	item, err := s.inner.CreateItem(ctx, input)
	if err != nil {
		return catalogdomain.MenuItem{}, s.handleError(ctx, span, err, "failed to create item", slog.String("item.name", input.Name))
	}
	s.logInfo(ctx, "item created", slog.String("item.id", item.ID), slog.Int("item.position", item.Position))
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, input catalogtypes.UpdateItemInput) (catalogdomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateItem", trace.WithAttributes(attribute.String("item.id", input.ID)))
	defer span.End()

	item, err := s.inner.UpdateItem(ctx, input)
	if err != nil {
		return catalogdomain.MenuItem{}, s.handleError(ctx, span, err, "failed to update item", slog.String("item.id", input.ID))
	}
	s.logInfo(ctx, "item updated", slog.String("item.id", item.ID))
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) (*catalogtypes.MoveResult, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	result, err := s.inner.DeleteItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete item", slog.String("item.id", id))
	}
	span.SetAttributes(attribute.Int("catalog.position_changes", len(result.Changes)))
	s.logInfo(ctx, "item deleted", slog.String("item.id", id), slog.Int("catalog.position_changes", len(result.Changes)))
	result.WriteBack = s.observeWriteBack(ctx, result.WriteBack, "compaction")
	return result, nil
}

func (s *Service) MoveItem(ctx context.Context, input catalogtypes.MoveItemInput) (*catalogtypes.MoveResult, error) {
	attrs := []attribute.KeyValue{attribute.String("item.id", input.ItemID)}
	if input.TargetIndex != nil {
		attrs = append(attrs, attribute.Int("move.target_index", *input.TargetIndex))
	}
	if input.Slot != nil {
		attrs = append(attrs, attribute.Int("move.slot", *input.Slot))
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.MoveItem", trace.WithAttributes(attrs...))
	defer span.End()

	result, err := s.inner.MoveItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to move item", slog.String("item.id", input.ItemID))
	}
	span.SetAttributes(attribute.Int("catalog.position_changes", len(result.Changes)))
	if len(result.Changes) > 0 {
		s.metrics.recordMoved(ctx)
	}
	s.logInfo(ctx, "item moved", slog.String("item.id", input.ItemID), slog.Int("catalog.position_changes", len(result.Changes)))
	result.WriteBack = s.observeWriteBack(ctx, result.WriteBack, "reorder")
	return result, nil
}

func (s *Service) Snapshot(ctx context.Context) projection.Projection[[]catalogdomain.MenuItem] {
	return s.inner.Snapshot(ctx)
}

// observeWriteBack relays the report while counting failed writes.
func (s *Service) observeWriteBack(ctx context.Context, in <-chan catalogdomain.WriteBackReport, reason string) <-chan catalogdomain.WriteBackReport {
	if in == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	out := make(chan catalogdomain.WriteBackReport, 1)
	go func() {
		defer close(out)
		for report := range in {
			s.metrics.recordWriteFailures(ctx, len(report.Failures), reason)
			out <- report
		}
	}()
	return out
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	itemsMoved        metric.Int64Counter
	writeBackFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsMoved, _ := m.Int64Counter("catalog.service.items_moved", metric.WithDescription("Number of reorders applied"))
	writeBackFailures, _ := m.Int64Counter("catalog.service.writeback_failures", metric.WithDescription("Number of position writes that failed"))
	return serviceMetrics{itemsMoved: itemsMoved, writeBackFailures: writeBackFailures}
}

func (m serviceMetrics) recordMoved(ctx context.Context) {
	if m.itemsMoved != nil {
		m.itemsMoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordWriteFailures(ctx context.Context, failures int, reason string) {
	if m.writeBackFailures != nil && failures > 0 {
		m.writeBackFailures.Add(ctx, int64(failures), metric.WithAttributes(attribute.String("writeback.reason", reason)))
	}
}

var _ catalogports.Service = (*Service)(nil)
