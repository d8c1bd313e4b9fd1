package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
)

var ErrNotFound = errors.New("settings not found")

// Repository is the settings persistence collaborator.
type Repository interface {
	GetSettings(ctx context.Context, operatorID string) (domain.Settings, error)
	// UpdateSettings applies patch to the stored record, creating it from defaults when absent.
	UpdateSettings(ctx context.Context, operatorID string, patch domain.Patch) (domain.Settings, error)
}
