package ports

import (
	"context"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	Reload(ctx context.Context) ([]domain.MenuItem, error)
	ListItems(ctx context.Context, filter types.ListFilter) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id string) (domain.MenuItem, error)
	CreateItem(ctx context.Context, input types.CreateItemInput) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, input types.UpdateItemInput) (domain.MenuItem, error)
	DeleteItem(ctx context.Context, id string) (*types.MoveResult, error)
	MoveItem(ctx context.Context, input types.MoveItemInput) (*types.MoveResult, error)
	Snapshot(ctx context.Context) projection.Projection[[]domain.MenuItem]
}
