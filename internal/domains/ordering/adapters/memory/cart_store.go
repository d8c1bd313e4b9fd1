package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

var _ ports.CartStore = (*CartStore)(nil)

type cartKey struct {
	operatorID string
	sessionID  string
}

// CartStore keeps carts in process memory; they end with the process.
type CartStore struct {
	mu    sync.RWMutex
	carts map[cartKey]domain.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: map[cartKey]domain.Cart{}}
}

func (s *CartStore) Load(_ context.Context, operatorID, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[cartKey{operatorID, sessionID}]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := cart.Clone()
	return &clone, nil
}

func (s *CartStore) Save(_ context.Context, cart domain.Cart) error {
	if err := cart.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartKey{cart.OperatorID, cart.SessionID}] = cart.Clone()
	return nil
}

func (s *CartStore) Delete(_ context.Context, operatorID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cartKey{operatorID, sessionID}
	if _, ok := s.carts[key]; !ok {
		return ports.ErrNotFound
	}
	delete(s.carts, key)
	return nil
}
