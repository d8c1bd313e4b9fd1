package ports

import (
	"context"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
)

// WriteBackOrchestrator persists a batch of position updates as independent writes.
// A returned error means the batch could not be run at all.
type WriteBackOrchestrator interface {
	WriteBack(ctx context.Context, input types.WriteBackInput) (domain.WriteBackReport, error)
}
