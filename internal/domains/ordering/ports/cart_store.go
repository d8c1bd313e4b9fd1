package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
)

var ErrNotFound = errors.New("cart not found")

// CartStore keeps per-session carts.
type CartStore interface {
	// Load returns ErrNotFound when the session has no cart.
	Load(ctx context.Context, operatorID, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, operatorID, sessionID string) error
}
