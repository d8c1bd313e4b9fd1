package ports

import (
	"context"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
)

// CatalogReader resolves items against the live catalog replica.
type CatalogReader interface {
	Lookup(itemID string) (domain.CatalogEntry, bool)
}

// ContactDirectory yields where orders for the operator are sent.
type ContactDirectory interface {
	DefaultContactNumber(ctx context.Context) (string, error)
}

// Messenger hands a built order message to an external messaging channel.
type Messenger interface {
	Deliver(ctx context.Context, delivery domain.Delivery) (domain.Receipt, error)
}

// LeadLog records submitted orders.
type LeadLog interface {
	Record(ctx context.Context, lead domain.Lead) error
	Count(ctx context.Context, operatorID string) (int64, error)
}
