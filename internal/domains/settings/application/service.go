package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	livesync "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

// Service keeps the settings holder in step with persistence.
type Service struct {
	scope     session.Scope
	repo      ports.Repository
	holder    *domain.Holder
	publisher ports.ChangePublisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithHolder(holder *domain.Holder) Option {
	return func(s *Service) {
		if holder != nil {
			s.holder = holder
		}
	}
}

func WithPublisher(publisher ports.ChangePublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(scope session.Scope, repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		scope:  scope,
		repo:   repo,
		holder: domain.NewHolder(domain.Defaults(scope.OperatorID)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Holder exposes the replica for read-only collaborators.
func (s *Service) Holder() *domain.Holder {
	return s.holder
}

func (s *Service) Get(_ context.Context) projection.Projection[domain.Settings] {
	return s.holder.Snapshot()
}

// Reload re-fetches the record; a missing record installs the defaults.
func (s *Service) Reload(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, s.scope.OperatorID)
	if errors.Is(err, ports.ErrNotFound) {
		settings, err = domain.Defaults(s.scope.OperatorID), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	s.holder.Set(settings)
	return settings, nil
}

// Update persists the patch, installs the result locally and announces the new row.
func (s *Service) Update(ctx context.Context, patch domain.Patch) (domain.Settings, error) {
	if _, err := s.holder.Get().Apply(patch); err != nil {
		return domain.Settings{}, mapError(err)
	}
	settings, err := s.repo.UpdateSettings(ctx, s.scope.OperatorID, patch)
	if err != nil {
		return domain.Settings{}, mapError(err)
	}
	s.holder.Set(settings)
	s.publish(ctx, settings)
	return settings, nil
}

// ApplyChange installs a feed row for this operator. Rows for other operators
// are rejected with ErrForeignOperator and leave the holder untouched.
func (s *Service) ApplyChange(_ context.Context, row json.RawMessage) (domain.Settings, error) {
	settings, err := domain.DecodeRow(row)
	if err != nil {
		return domain.Settings{}, err
	}
	if settings.OperatorID != s.scope.OperatorID {
		return domain.Settings{}, ErrForeignOperator
	}
	s.holder.Set(settings)
	return settings, nil
}

func (s *Service) publish(ctx context.Context, settings domain.Settings) {
	if s.publisher == nil {
		return
	}
	event, err := livesync.NewEvent(livesync.TableSettings, livesync.EventUpdate, s.scope.OperatorID, settings.Row())
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish settings change",
			slog.String("operator.id", s.scope.OperatorID), slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
