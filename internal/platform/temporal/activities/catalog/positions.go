package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
)

const (
	// PersistPositionActivityName writes the new position of one item row.
	PersistPositionActivityName = "catalog.activities.PersistPosition"
)

// PersistPositionInput is the payload of a single position write.
type PersistPositionInput struct {
	Item    catalogdomain.MenuItem
	TraceID string
}

// PersistPositionResult tells the workflow whether the row was gone.
type PersistPositionResult struct {
	Skipped bool
}

// Activities groups activities that operate on the catalog bounded context.
type Activities struct {
	repo catalogports.Repository
}

func NewActivities(repo catalogports.Repository) *Activities {
	return &Activities{repo: repo}
}

// PersistPosition updates the position column of the item. It is scheduled
// without retries; a failed write is reported back to the workflow as-is. A row
// deleted after the move is skipped.
func (a *Activities) PersistPosition(ctx context.Context, input PersistPositionInput) (PersistPositionResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		logger.Error("position activity not initialized", "itemId", input.Item.ID)
		return PersistPositionResult{}, errors.New("position activity not initialized")
	}
	err := a.repo.UpdatePosition(ctx, input.Item.OperatorID, input.Item.ID, input.Item.Position)
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		logger.Warn("PersistPosition skipped, item no longer exists", "itemId", input.Item.ID)
		return PersistPositionResult{Skipped: true}, nil
	case err != nil:
		logger.Error("PersistPosition failed", "itemId", input.Item.ID, "position", input.Item.Position, "error", err)
		return PersistPositionResult{}, err
	}
	logger.Info("PersistPosition completed", "itemId", input.Item.ID, "position", input.Item.Position)
	return PersistPositionResult{}, nil
}
