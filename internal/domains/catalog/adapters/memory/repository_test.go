package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
)

func TestRepository_ScopesByOperator(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "1", OperatorID: "a", Name: "Coffee", PriceMinor: 20000}))
	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "1", OperatorID: "b", Name: "Tea", PriceMinor: 15000}))

	items, err := repo.ListItems(ctx, "a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee", items[0].Name)

	require.NoError(t, repo.DeleteItem(ctx, "a", "1"))
	assert.ErrorIs(t, repo.DeleteItem(ctx, "a", "1"), ports.ErrNotFound)

	items, err = repo.ListItems(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRepository_RejectsInvalidItems(t *testing.T) {
	repo := NewRepository()
	err := repo.UpsertItem(context.Background(), domain.MenuItem{ID: "1", OperatorID: "a", Name: "Coffee", PriceMinor: -5})
	assert.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestRepository_ListItemsOrderedByPosition(t *testing.T) {
	repo := NewRepository(
		domain.MenuItem{ID: "c", OperatorID: "a", Name: "Cake", PriceMinor: 15000, Position: 2},
		domain.MenuItem{ID: "b", OperatorID: "a", Name: "Tea", PriceMinor: 5000, Position: 0},
		domain.MenuItem{ID: "a", OperatorID: "a", Name: "Juice", PriceMinor: 9000, Position: 0},
		domain.MenuItem{ID: "d", OperatorID: "a", Name: "Soup", PriceMinor: 12000, Position: 1},
	)

	items, err := repo.ListItems(context.Background(), "a")
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids)
}

func TestRepository_UpdatePosition(t *testing.T) {
	repo := NewRepository(domain.MenuItem{ID: "1", OperatorID: "a", Name: "Coffee", PriceMinor: 20000, Position: 0})
	ctx := context.Background()

	require.NoError(t, repo.UpdatePosition(ctx, "a", "1", 4))
	items, err := repo.ListItems(ctx, "a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Position)
	assert.Equal(t, "Coffee", items[0].Name)

	require.NoError(t, repo.DeleteItem(ctx, "a", "1"))
	assert.ErrorIs(t, repo.UpdatePosition(ctx, "a", "1", 0), ports.ErrNotFound)
	items, err = repo.ListItems(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, items)
}
