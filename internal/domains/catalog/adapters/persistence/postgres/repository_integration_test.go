//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("menu_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestRepository_UpsertAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "b", OperatorID: "op", Name: "Tea", PriceMinor: 15000, Position: 1}))
	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "a", OperatorID: "op", Name: "Coffee", PriceMinor: 20000, Position: 0}))
	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "a", OperatorID: "other", Name: "Juice", PriceMinor: 9000, Position: 0}))

	items, err := repo.ListItems(ctx, "op")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "b", OperatorID: "op", Name: "Tea", PriceMinor: 15000, Position: 0}))
	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "a", OperatorID: "op", Name: "Coffee", PriceMinor: 21000, Position: 1}))
	items, err = repo.ListItems(ctx, "op")
	require.NoError(t, err)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, int64(21000), items[1].PriceMinor)
}

func TestRepository_DeleteItem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "a", OperatorID: "op", Name: "Coffee", PriceMinor: 20000}))
	require.NoError(t, repo.DeleteItem(ctx, "op", "a"))
	assert.ErrorIs(t, repo.DeleteItem(ctx, "op", "a"), ports.ErrNotFound)
}

func TestRepository_UpdatePositionTouchesPositionOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "a", OperatorID: "op", Name: "Coffee", PriceMinor: 20000, Position: 0}))
	require.NoError(t, repo.UpsertItem(ctx, domain.MenuItem{ID: "a", OperatorID: "op", Name: "Iced Coffee", PriceMinor: 23000, Position: 0}))

	require.NoError(t, repo.UpdatePosition(ctx, "op", "a", 3))
	items, err := repo.ListItems(ctx, "op")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Position)
	assert.Equal(t, "Iced Coffee", items[0].Name)
	assert.Equal(t, int64(23000), items[0].PriceMinor)

	require.NoError(t, repo.DeleteItem(ctx, "op", "a"))
	assert.ErrorIs(t, repo.UpdatePosition(ctx, "op", "a", 0), ports.ErrNotFound)
	items, err = repo.ListItems(ctx, "op")
	require.NoError(t, err)
	assert.Empty(t, items)
}
