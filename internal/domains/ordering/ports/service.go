package ports

import (
	"context"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application/types"
)

// Service exposes the customer cart use cases.
type Service interface {
	View(ctx context.Context, sessionID string) (*types.CartView, error)
	AddItem(ctx context.Context, input types.AddItemInput) (*types.CartView, error)
	ChangeQuantity(ctx context.Context, input types.ChangeQuantityInput) (*types.CartView, error)
	Checkout(ctx context.Context, input types.CheckoutInput) (*types.CheckoutResult, error)
	SubmittedOrders(ctx context.Context) (int64, error)
}
