package ports

import (
	"context"
	"encoding/json"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
)

// Source opens a change subscription for one operator. The returned channel is
// closed when the subscription is lost or ctx is cancelled.
type Source interface {
	Subscribe(ctx context.Context, operatorID string) (<-chan domain.Event, error)
}

// Publisher announces a change to every subscribed replica.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Notifier pushes replica changes to attached views.
type Notifier interface {
	CatalogReloaded(ctx context.Context, view any)
	SettingsChanged(ctx context.Context, view any)
	StatusChanged(ctx context.Context, status domain.Status)
}

// ReloaderFunc refreshes a replica from persistence and returns the view to push.
type ReloaderFunc func(ctx context.Context) (any, error)

// ApplierFunc installs a row delivered by the feed and returns the view to push.
type ApplierFunc func(ctx context.Context, row json.RawMessage) (any, error)
