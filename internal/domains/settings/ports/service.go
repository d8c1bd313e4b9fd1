package ports

import (
	"context"
	"encoding/json"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

// Service exposes settings use cases to adapters.
type Service interface {
	Get(ctx context.Context) projection.Projection[domain.Settings]
	Update(ctx context.Context, patch domain.Patch) (domain.Settings, error)
	Reload(ctx context.Context) (domain.Settings, error)
	// ApplyChange installs a row announced by the change feed without a round trip.
	ApplyChange(ctx context.Context, row json.RawMessage) (domain.Settings, error)
}
