package types

import "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"

// AddItemInput adds one unit of an item to a session cart.
type AddItemInput struct {
	SessionID string
	ItemID    string
}

// ChangeQuantityInput shifts the quantity of an existing line by Delta.
type ChangeQuantityInput struct {
	SessionID string
	ItemID    string
	Delta     int
}

// CheckoutInput submits a session cart. IdempotencyKey is optional.
type CheckoutInput struct {
	SessionID      string
	Locale         string
	IdempotencyKey string
}

// CartView is a cart priced against the live catalog.
type CartView struct {
	SessionID  string
	Lines      []domain.PricedLine
	TotalMinor int64
	ItemCount  int
	// Pruned lists items dropped because they left the catalog.
	Pruned []string
}

// CheckoutResult describes a submitted order.
type CheckoutResult struct {
	LeadID      string
	Destination string
	Message     string
	TotalMinor  int64
	Receipt     domain.Receipt
	Replayed    bool
}
