package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderingtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application/types"
	orderingports "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

const tracerName = "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner           orderingports.Service
	tracer          trace.Tracer
	logger          *slog.Logger
	ordersSubmitted metric.Int64Counter
	cartMutations   metric.Int64Counter
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
		if m == nil {
			return
		}
		s.ordersSubmitted, _ = m.Int64Counter("ordering.service.orders_submitted", metric.WithDescription("Number of orders handed to a messaging channel"))
		s.cartMutations, _ = m.Int64Counter("ordering.service.cart_mutations", metric.WithDescription("Number of cart line changes"))
	}
}

func New(inner orderingports.Service, opts ...Option) orderingports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.Default(),
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

func (s *Service) View(ctx context.Context, sessionID string) (*orderingtypes.CartView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.View", trace.WithAttributes(attribute.String("cart.session_id", sessionID)))
	defer span.End()

	view, err := s.inner.View(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to view cart", slog.String("cart.session_id", sessionID))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(view.Lines)), attribute.Int64("cart.total_minor", view.TotalMinor))
	return view, nil
}

func (s *Service) AddItem(ctx context.Context, input orderingtypes.AddItemInput) (*orderingtypes.CartView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.AddItem", trace.WithAttributes(
		attribute.String("cart.session_id", input.SessionID),
		attribute.String("item.id", input.ItemID)))
	defer span.End()

	view, err := s.inner.AddItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add cart item", slog.String("item.id", input.ItemID))
	}
	s.countMutation(ctx, "add")
	return view, nil
}

func (s *Service) ChangeQuantity(ctx context.Context, input orderingtypes.ChangeQuantityInput) (*orderingtypes.CartView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.ChangeQuantity", trace.WithAttributes(
		attribute.String("cart.session_id", input.SessionID),
		attribute.String("item.id", input.ItemID),
		attribute.Int("cart.delta", input.Delta)))
	defer span.End()

	view, err := s.inner.ChangeQuantity(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change cart quantity",
			slog.String("item.id", input.ItemID), slog.Int("cart.delta", input.Delta))
	}
	s.countMutation(ctx, "change_quantity")
	return view, nil
}

func (s *Service) Checkout(ctx context.Context, input orderingtypes.CheckoutInput) (*orderingtypes.CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.Checkout", trace.WithAttributes(
		attribute.String("cart.session_id", input.SessionID),
		attribute.String("order.locale", input.Locale),
		attribute.Bool("order.idempotent", input.IdempotencyKey != "")))
	defer span.End()

	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to check out cart", slog.String("cart.session_id", input.SessionID))
	}
	span.SetAttributes(attribute.String("order.channel", result.Receipt.Channel), attribute.Bool("order.replayed", result.Replayed))
	if result.Replayed {
		s.logInfo(ctx, "checkout replayed", slog.String("lead.id", result.LeadID))
		return result, nil
	}
	if s.ordersSubmitted != nil {
		s.ordersSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("order.channel", result.Receipt.Channel)))
	}
	s.logInfo(ctx, "order submitted",
		slog.String("lead.id", result.LeadID),
		slog.String("order.channel", result.Receipt.Channel),
		slog.Int64("order.total_minor", result.TotalMinor))
	return result, nil
}

func (s *Service) SubmittedOrders(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.SubmittedOrders")
	defer span.End()

	n, err := s.inner.SubmittedOrders(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to count submitted orders")
	}
	return n, nil
}

func (s *Service) countMutation(ctx context.Context, operation string) {
	if s.cartMutations != nil {
		s.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", operation)))
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ orderingports.Service = (*Service)(nil)
