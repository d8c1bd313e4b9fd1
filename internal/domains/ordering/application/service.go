package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

// Service runs customer carts against the live catalog replica.
type Service struct {
	scope       session.Scope
	carts       ports.CartStore
	catalog     ports.CatalogReader
	contacts    ports.ContactDirectory
	messenger   ports.Messenger
	leads       ports.LeadLog
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string

	mu sync.Mutex
}

type Option func(*Service)

func WithLeadLog(leads ports.LeadLog) Option {
	return func(s *Service) {
		s.leads = leads
	}
}

func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
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

func NewService(scope session.Scope, carts ports.CartStore, catalog ports.CatalogReader, contacts ports.ContactDirectory, messenger ports.Messenger, opts ...Option) *Service {
	s := &Service{
		scope:     scope,
		carts:     carts,
		catalog:   catalog,
		contacts:  contacts,
		messenger: messenger,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// View prices the session cart, dropping lines whose items left the catalog.
// A session without a cart yields an empty view.
func (s *Service) View(ctx context.Context, sessionID string) (*types.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	pruned, err := s.prune(ctx, cart)
	if err != nil {
		return nil, err
	}
	return s.view(cart, pruned), nil
}

// AddItem adds one unit, creating the cart when needed. The item must be offered.
func (s *Service) AddItem(ctx context.Context, input types.AddItemInput) (*types.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog.Lookup(strings.TrimSpace(input.ItemID)); !ok {
		if strings.TrimSpace(input.ItemID) == "" {
			return nil, mapError(domain.ErrMissingItem)
		}
		return nil, domain.ErrItemNotFound
	}
	cart, err := s.load(ctx, input.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	pruned := cart.Prune(s.catalog.Lookup)
	if _, err := cart.AddOrIncrement(input.ItemID); err != nil {
		return nil, mapError(err)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(cart, pruned), nil
}

// ChangeQuantity shifts an existing line; a result at or below zero removes it.
func (s *Service) ChangeQuantity(ctx context.Context, input types.ChangeQuantityInput) (*types.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if input.Delta == 0 {
		return nil, mapError(domain.ErrInvalidQuantityDelta)
	}
	cart, err := s.load(ctx, input.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	pruned := cart.Prune(s.catalog.Lookup)
	if _, err := cart.ChangeQuantity(input.ItemID, input.Delta); err != nil {
		return nil, mapError(err)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(cart, pruned), nil
}

// Checkout builds the order message, hands it to the messenger and clears the cart.
// When delivery fails the cart is left as it was.
func (s *Service) Checkout(ctx context.Context, input types.CheckoutInput) (*types.CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	locale := s.resolveLocale(input.Locale)
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		var err error
		fingerprint, err = FingerprintCheckout(s.scope.OperatorID, strings.TrimSpace(input.SessionID), locale)
		if err != nil {
			return nil, err
		}
		record, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if record.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			return replay(record), nil
		}
	}

	cart, err := s.load(ctx, input.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.prune(ctx, cart); err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, mapError(domain.ErrEmptyCart)
	}

	contact, err := s.contacts.DefaultContactNumber(ctx)
	if err != nil {
		return nil, err
	}
	destination, err := domain.NormalizeDestination(contact)
	if err != nil {
		return nil, mapError(err)
	}
	summary := cart.Price(s.catalog.Lookup)
	message := domain.BuildOrderMessage(summary, locale)

	receipt, err := s.messenger.Deliver(ctx, domain.Delivery{Destination: destination, Message: message})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	if err := s.carts.Delete(ctx, cart.OperatorID, cart.SessionID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to clear cart after checkout",
			slog.String("cart.session_id", cart.SessionID), slog.String("error", err.Error()))
	}

	result := &types.CheckoutResult{
		LeadID:      s.newID(),
		Destination: destination,
		Message:     message,
		TotalMinor:  summary.TotalMinor,
		Receipt:     receipt,
	}
	s.recordLead(ctx, cart, summary, result)
	if fingerprint != "" {
		s.remember(ctx, key, fingerprint, result)
	}
	return result, nil
}

// SubmittedOrders counts recorded leads for the operator.
func (s *Service) SubmittedOrders(ctx context.Context) (int64, error) {
	if s.leads == nil {
		return 0, nil
	}
	return s.leads.Count(ctx, s.scope.OperatorID)
}

// load returns the stored cart, or an unsaved empty one for a new session.
func (s *Service) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	fresh, err := domain.NewCart(s.scope.OperatorID, sessionID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.Load(ctx, fresh.OperatorID, fresh.SessionID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return fresh, nil
	case err != nil:
		return nil, err
	}
	return cart, nil
}

func (s *Service) prune(ctx context.Context, cart *domain.Cart) ([]string, error) {
	pruned := cart.Prune(s.catalog.Lookup)
	if len(pruned) == 0 {
		return nil, nil
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "dropped cart lines for items no longer offered",
		slog.String("cart.session_id", cart.SessionID), slog.Int("cart.pruned", len(pruned)))
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return pruned, nil
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = s.now().UTC()
	return s.carts.Save(ctx, cart.Clone())
}

func (s *Service) view(cart *domain.Cart, pruned []string) *types.CartView {
	summary := cart.Price(s.catalog.Lookup)
	return &types.CartView{
		SessionID:  cart.SessionID,
		Lines:      summary.Lines,
		TotalMinor: summary.TotalMinor,
		ItemCount:  summary.ItemCount,
		Pruned:     pruned,
	}
}

func (s *Service) resolveLocale(requested string) string {
	if locale := s.scope.Locale(requested); domain.SupportsLocale(locale) {
		return locale
	}
	if domain.SupportsLocale(s.scope.DefaultLocale) {
		return strings.ToLower(s.scope.DefaultLocale)
	}
	return domain.FallbackLocale
}

func (s *Service) recordLead(ctx context.Context, cart *domain.Cart, summary domain.Summary, result *types.CheckoutResult) {
	if s.leads == nil {
		return
	}
	lead := domain.Lead{
		ID:          result.LeadID,
		OperatorID:  cart.OperatorID,
		SessionID:   cart.SessionID,
		Destination: result.Destination,
		Message:     result.Message,
		TotalMinor:  summary.TotalMinor,
		ItemCount:   summary.ItemCount,
		Channel:     result.Receipt.Channel,
		Reference:   result.Receipt.Reference,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.leads.Record(ctx, lead); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record order lead",
			slog.String("lead.id", lead.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) remember(ctx context.Context, key, fingerprint string, result *types.CheckoutResult) {
	_, err := s.idempotency.Save(ctx, ports.CheckoutRecord{
		Key:         key,
		RequestHash: fingerprint,
		LeadID:      result.LeadID,
		Destination: result.Destination,
		Message:     result.Message,
		TotalMinor:  result.TotalMinor,
		Channel:     result.Receipt.Channel,
		Reference:   result.Receipt.Reference,
		URL:         result.Receipt.URL,
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to store checkout idempotency key",
			slog.String("idempotency.key", key), slog.String("error", err.Error()))
	}
}

func replay(record *ports.CheckoutRecord) *types.CheckoutResult {
	return &types.CheckoutResult{
		LeadID:      record.LeadID,
		Destination: record.Destination,
		Message:     record.Message,
		TotalMinor:  record.TotalMinor,
		Receipt: domain.Receipt{
			Channel:   record.Channel,
			Reference: record.Reference,
			URL:       record.URL,
		},
		Replayed: true,
	}
}

var _ ports.Service = (*Service)(nil)
