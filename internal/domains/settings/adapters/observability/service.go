package observability

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	settingsdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	settingsports "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

const tracerName = "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/observability/service"

// Service decorates the settings service with tracing, logging, and metrics.
type Service struct {
	inner   settingsports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	updates metric.Int64Counter
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
		if m != nil {
			s.updates, _ = m.Int64Counter("settings.service.updates", metric.WithDescription("Number of settings updates"))
		}
	}
}

func New(inner settingsports.Service, opts ...Option) settingsports.Service {
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

func (s *Service) Get(ctx context.Context) projection.Projection[settingsdomain.Settings] {
	return s.inner.Get(ctx)
}

func (s *Service) Update(ctx context.Context, patch settingsdomain.Patch) (settingsdomain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "SettingsService.Update", trace.WithAttributes(
		attribute.Bool("patch.contact_number", patch.DefaultContactNumber != nil),
		attribute.Bool("patch.display_template", patch.DisplayTemplate != nil)))
	defer span.End()

	settings, err := s.inner.Update(ctx, patch)
	if err != nil {
		return settingsdomain.Settings{}, s.handleError(ctx, span, err, "failed to update settings")
	}
	if s.updates != nil {
		s.updates.Add(ctx, 1)
	}
	s.logInfo(ctx, "settings updated", slog.String("operator.id", settings.OperatorID), slog.String("settings.template", settings.DisplayTemplate))
	return settings, nil
}

func (s *Service) Reload(ctx context.Context) (settingsdomain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "SettingsService.Reload")
	defer span.End()

	settings, err := s.inner.Reload(ctx)
	if err != nil {
		return settingsdomain.Settings{}, s.handleError(ctx, span, err, "failed to reload settings")
	}
	return settings, nil
}

func (s *Service) ApplyChange(ctx context.Context, row json.RawMessage) (settingsdomain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "SettingsService.ApplyChange", trace.WithAttributes(attribute.Int("row.bytes", len(row))))
	defer span.End()

	settings, err := s.inner.ApplyChange(ctx, row)
	if err != nil {
		return settingsdomain.Settings{}, s.handleError(ctx, span, err, "failed to apply settings change")
	}
	s.logInfo(ctx, "settings change applied", slog.String("operator.id", settings.OperatorID))
	return settings, nil
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

var _ settingsports.Service = (*Service)(nil)
