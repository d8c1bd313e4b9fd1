package ports

import (
	"context"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
)

var ErrNotFound = domain.ErrItemNotFound

// Repository is the catalog persistence collaborator.
type Repository interface {
	ListItems(ctx context.Context, operatorID string) ([]domain.MenuItem, error)
	UpsertItem(ctx context.Context, item domain.MenuItem) error
	// UpdatePosition writes only the position column of an existing row and
	// returns ErrNotFound when the row is gone.
	UpdatePosition(ctx context.Context, operatorID, id string, position int) error
	DeleteItem(ctx context.Context, operatorID, id string) error
}
