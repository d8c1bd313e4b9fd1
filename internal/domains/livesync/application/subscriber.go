package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 5 * time.Second
)

// Reloaders are the replica hooks driven by the subscriber.
type Reloaders struct {
	Catalog       ports.ReloaderFunc
	Settings      ports.ReloaderFunc
	ApplySettings ports.ApplierFunc
}

// StatusView is the freshness report served to views.
type StatusView struct {
	Status       domain.Status
	Failures     int
	LastSyncedAt time.Time
	LastError    string
}

// Subscriber keeps one operator's replicas reconciled with the change feed.
type Subscriber struct {
	scope     session.Scope
	source    ports.Source
	reloaders Reloaders
	notifier  ports.Notifier
	logger    *slog.Logger

	maxAttempts int
	backoff     time.Duration

	mu       sync.RWMutex
	status   domain.Status
	failures int
	syncedAt time.Time
	lastErr  string
}

type Option func(*Subscriber)

func WithNotifier(notifier ports.Notifier) Option {
	return func(s *Subscriber) {
		s.notifier = notifier
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Subscriber) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetry sets how many consecutive failures mark the view outdated and the
// delay between resubscribe attempts.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(s *Subscriber) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			s.backoff = backoff
		}
	}
}

func NewSubscriber(scope session.Scope, source ports.Source, reloaders Reloaders, opts ...Option) *Subscriber {
	s := &Subscriber{
		scope:       scope,
		source:      source,
		reloaders:   reloaders,
		logger:      slog.Default(),
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		status:      domain.StatusConnecting,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handle controls a running subscriber.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the subscription and waits for the loop to exit.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start runs the subscribe loop until ctx is cancelled or Stop is called.
func (s *Subscriber) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	handle := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(handle.done)
		s.run(ctx)
	}()
	return handle
}

func (s *Subscriber) Status() StatusView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatusView{Status: s.status, Failures: s.failures, LastSyncedAt: s.syncedAt, LastError: s.lastErr}
}

// Resync forces a full reload of the catalog and the settings.
func (s *Subscriber) Resync(ctx context.Context) error {
	var errs []error
	if s.reloaders.Catalog != nil {
		view, err := s.reloaders.Catalog(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.notifyCatalog(ctx, view)
		}
	}
	if s.reloaders.Settings != nil {
		view, err := s.reloaders.Settings(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.notifySettings(ctx, view)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.mu.Lock()
	s.syncedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *Subscriber) run(ctx context.Context) {
	defer s.setStatus(context.WithoutCancel(ctx), domain.StatusStopped)
	s.setStatus(ctx, domain.StatusConnecting)
	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			return
		}
		s.recordFailure(ctx, err)
		timer := time.NewTimer(s.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// session subscribes, resyncs and consumes events until the subscription ends.
func (s *Subscriber) session(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := s.source.Subscribe(subCtx, s.scope.OperatorID)
	if err != nil {
		return err
	}
	// Anything missed while disconnected is recovered by the full reload.
	if err := s.Resync(subCtx); err != nil {
		return err
	}
	s.mu.Lock()
	s.failures = 0
	s.lastErr = ""
	s.mu.Unlock()
	s.setStatus(ctx, domain.StatusLive)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return domain.ErrSubscriptionLost
			}
			s.handle(subCtx, event)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, event domain.Event) {
	if event.OperatorID != s.scope.OperatorID {
		return
	}
	switch event.Table {
	case domain.TableMenuItems:
		s.reloadCatalog(ctx, event)
	case domain.TableSettings:
		s.applySettings(ctx, event)
	}
}

func (s *Subscriber) reloadCatalog(ctx context.Context, event domain.Event) {
	if s.reloaders.Catalog == nil {
		return
	}
	view, err := s.reloaders.Catalog(ctx)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "catalog reload after change failed",
			slog.String("event.type", string(event.Type)), slog.String("error", err.Error()))
		return
	}
	s.notifyCatalog(ctx, view)
}

func (s *Subscriber) applySettings(ctx context.Context, event domain.Event) {
	if event.HasRow() && s.reloaders.ApplySettings != nil {
		view, err := s.reloaders.ApplySettings(ctx, event.NewRow)
		if err == nil {
			s.notifySettings(ctx, view)
			return
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "settings row not applied, refetching",
			slog.String("error", err.Error()))
	}
	if s.reloaders.Settings == nil {
		return
	}
	view, err := s.reloaders.Settings(ctx)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "settings reload after change failed", slog.String("error", err.Error()))
		return
	}
	s.notifySettings(ctx, view)
}

func (s *Subscriber) recordFailure(ctx context.Context, err error) {
	if err == nil {
		err = domain.ErrSubscriptionLost
	}
	s.mu.Lock()
	s.failures++
	failures := s.failures
	s.lastErr = err.Error()
	s.mu.Unlock()

	status := domain.StatusResyncing
	if failures >= s.maxAttempts {
		status = domain.StatusOutdated
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "change feed subscription failed",
		slog.String("operator.id", s.scope.OperatorID),
		slog.Int("failures", failures),
		slog.String("status", string(status)),
		slog.String("error", err.Error()))
	s.setStatus(ctx, status)
}

func (s *Subscriber) setStatus(ctx context.Context, status domain.Status) {
	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.mu.Unlock()
	if changed && s.notifier != nil {
		s.notifier.StatusChanged(ctx, status)
	}
}

func (s *Subscriber) notifyCatalog(ctx context.Context, view any) {
	if s.notifier != nil {
		s.notifier.CatalogReloaded(ctx, view)
	}
}

func (s *Subscriber) notifySettings(ctx context.Context, view any) {
	if s.notifier != nil {
		s.notifier.SettingsChanged(ctx, view)
	}
}
