package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	livesync "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

const (
	reasonReorder    = "reorder"
	reasonCompaction = "compaction"
	reasonHeal       = "heal"
)

// Service orchestrates catalog use cases on top of the local replica.
type Service struct {
	scope     session.Scope
	repo      ports.Repository
	store     *domain.Catalog
	engine    *ReorderEngine
	writeBack ports.WriteBackOrchestrator
	publisher ports.ChangePublisher
	logger    *slog.Logger
	newID     func() string

	// mu serializes operator mutations of the replica; write-backs run outside it.
	mu sync.Mutex
}

type Option func(*Service)

// WithStore shares an existing replica, e.g. with the cart engine.
func WithStore(store *domain.Catalog) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

func WithWriteBack(orchestrator ports.WriteBackOrchestrator) Option {
	return func(s *Service) {
		s.writeBack = orchestrator
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

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(scope session.Scope, repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		scope:  scope,
		repo:   repo,
		store:  domain.NewCatalog(),
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.engine = NewReorderEngine(s.store)
	return s
}

// Store exposes the replica for read-only collaborators.
func (s *Service) Store() *domain.Catalog {
	return s.store
}

// Reload fetches the full catalog and installs it as the authoritative replica.
// Duplicate or missing positions read back from persistence are renumbered in
// stored order and written back, so the replica is dense after every reload.
func (s *Service) Reload(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.repo.ListItems(ctx, s.scope.OperatorID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.store.Load(items)
	if s.store.Dense() {
		s.mu.Unlock()
		return s.store.Items(), nil
	}
	healed, changes := s.engine.Compact()
	s.mu.Unlock()

	s.logger.LogAttrs(ctx, slog.LevelWarn, "catalog positions not dense after reload",
		slog.String("operator.id", s.scope.OperatorID), slog.Int("positions.changed", len(changes)))
	s.dispatchWriteBack(ctx, changedItems(healed, changes), reasonHeal)
	return healed, nil
}

func (s *Service) ListItems(_ context.Context, filter types.ListFilter) ([]domain.MenuItem, error) {
	items := make([]domain.MenuItem, 0, s.store.Len())
	for item := range s.store.OrderedView() {
		if item.InCategory(filter.Category) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Service) GetItem(_ context.Context, id string) (domain.MenuItem, error) {
	item, ok := s.store.Get(strings.TrimSpace(id))
	if !ok {
		return domain.MenuItem{}, ports.ErrNotFound
	}
	return item, nil
}

// CreateItem persists a new item at the end of the catalog, then adds it locally.
func (s *Service) CreateItem(ctx context.Context, input types.CreateItemInput) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := domain.NewMenuItem(s.newID(), s.scope.OperatorID, input.Name, input.PriceMinor, s.store.Len())
	if err != nil {
		return domain.MenuItem{}, mapError(err)
	}
	item.Description = strings.TrimSpace(input.Description)
	item.Category = strings.TrimSpace(input.Category)
	item.ImageRef = strings.TrimSpace(input.ImageRef)
	if err := s.repo.UpsertItem(ctx, *item); err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.store.Upsert(*item); err != nil {
		return domain.MenuItem{}, mapError(err)
	}
	s.publish(ctx, livesync.EventInsert)
	return *item, nil
}

// UpdateItem edits item fields; the position is never changed here.
func (s *Service) UpdateItem(ctx context.Context, input types.UpdateItemInput) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.store.Get(strings.TrimSpace(input.ID))
	if !ok {
		return domain.MenuItem{}, ports.ErrNotFound
	}
	if input.Name != nil {
		if err := item.Rename(*input.Name); err != nil {
			return domain.MenuItem{}, mapError(err)
		}
	}
	if input.PriceMinor != nil {
		if err := item.Reprice(*input.PriceMinor); err != nil {
			return domain.MenuItem{}, mapError(err)
		}
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.ImageRef != nil {
		item.ImageRef = strings.TrimSpace(*input.ImageRef)
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.store.Upsert(item); err != nil {
		return domain.MenuItem{}, mapError(err)
	}
	s.publish(ctx, livesync.EventUpdate)
	return item, nil
}

// DeleteItem removes the item from persistence and the replica, then compacts
// the positions above it through the same write-back path as a reorder.
func (s *Service) DeleteItem(ctx context.Context, id string) (*types.MoveResult, error) {
	s.mu.Lock()
	id = strings.TrimSpace(id)
	if _, ok := s.store.Get(id); !ok {
		s.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	if err := s.repo.DeleteItem(ctx, s.scope.OperatorID, id); err != nil && !errors.Is(err, ports.ErrNotFound) {
		s.mu.Unlock()
		return nil, err
	}
	if _, err := s.store.Remove(id); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	items, changes := s.engine.Compact()
	s.mu.Unlock()

	if len(changes) == 0 {
		s.publish(ctx, livesync.EventDelete)
		return &types.MoveResult{Items: items, WriteBack: settled(domain.WriteBackReport{})}, nil
	}
	return &types.MoveResult{
		Items:     items,
		Changes:   changes,
		WriteBack: s.dispatchWriteBack(ctx, changedItems(items, changes), reasonCompaction),
	}, nil
}

// MoveItem applies a reorder to the replica immediately and persists the changed
// positions in the background. The returned snapshot never waits for storage.
func (s *Service) MoveItem(ctx context.Context, input types.MoveItemInput) (*types.MoveResult, error) {
	if (input.TargetIndex == nil) == (input.Slot == nil) {
		return nil, mapError(domain.ErrInvalidPosition)
	}
	s.mu.Lock()
	var (
		items   []domain.MenuItem
		changes []domain.PositionChange
		err     error
	)
	if input.TargetIndex != nil {
		items, changes, err = s.engine.ApplyMove(strings.TrimSpace(input.ItemID), *input.TargetIndex)
	} else {
		items, changes, err = s.engine.ApplyMoveToSlot(strings.TrimSpace(input.ItemID), *input.Slot)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, mapError(err)
	}
	if len(changes) == 0 {
		return &types.MoveResult{Items: items, WriteBack: settled(domain.WriteBackReport{})}, nil
	}
	return &types.MoveResult{
		Items:     items,
		Changes:   changes,
		WriteBack: s.dispatchWriteBack(ctx, changedItems(items, changes), reasonReorder),
	}, nil
}

func (s *Service) Snapshot(_ context.Context) projection.Projection[[]domain.MenuItem] {
	return s.store.Snapshot()
}

// Lookup is a synchronous read for collaborators holding no context.
func (s *Service) Lookup(id string) (domain.MenuItem, bool) {
	return s.store.Get(id)
}

func (s *Service) dispatchWriteBack(ctx context.Context, items []domain.MenuItem, reason string) <-chan domain.WriteBackReport {
	done := make(chan domain.WriteBackReport, 1)
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		report := s.writeBackNow(ctx, items, reason)
		s.logReport(ctx, report, reason)
		// A heal with no successful write is not announced.
		if reason != reasonHeal || report.Succeeded() > 0 {
			s.publish(ctx, livesync.EventUpdate)
		}
		done <- report
	}()
	return done
}

func (s *Service) writeBackNow(ctx context.Context, items []domain.MenuItem, reason string) domain.WriteBackReport {
	if s.writeBack == nil {
		return WritePositions(ctx, s.repo, items)
	}
	report, err := s.writeBack.WriteBack(ctx, types.WriteBackInput{
		OperatorID: s.scope.OperatorID,
		Reason:     reason,
		Items:      items,
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "position write-back could not run",
			slog.String("reason", reason), slog.String("error", err.Error()))
		return FailAll(items, err.Error())
	}
	return report
}

func (s *Service) logReport(ctx context.Context, report domain.WriteBackReport, reason string) {
	for _, failure := range report.Failures {
		s.logger.LogAttrs(ctx, slog.LevelError, "position write failed",
			slog.String("reason", reason),
			slog.String("item.id", failure.ItemID),
			slog.Int("item.position", failure.Position),
			slog.String("error", failure.Reason))
	}
	if report.Attempted > 0 {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "position write-back finished",
			slog.String("reason", reason),
			slog.Int("writes.attempted", report.Attempted),
			slog.Int("writes.failed", len(report.Failures)),
			slog.Int("writes.skipped", len(report.Skipped)))
	}
}

func (s *Service) publish(ctx context.Context, eventType livesync.EventType) {
	if s.publisher == nil {
		return
	}
	event, err := livesync.NewEvent(livesync.TableMenuItems, eventType, s.scope.OperatorID, nil)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish catalog change",
			slog.String("operator.id", s.scope.OperatorID), slog.String("error", err.Error()))
	}
}

func settled(report domain.WriteBackReport) <-chan domain.WriteBackReport {
	done := make(chan domain.WriteBackReport, 1)
	done <- report
	close(done)
	return done
}

var _ ports.Service = (*Service)(nil)
