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

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/platform/migrations"
)

func setupSettingsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestRepository_UpdateCreatesThenPatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSettingsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.GetSettings(ctx, "op")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	number := "0812-3456"
	saved, err := repo.UpdateSettings(ctx, "op", domain.Patch{DefaultContactNumber: &number})
	require.NoError(t, err)
	assert.Equal(t, "08123456", saved.DefaultContactNumber)
	assert.Equal(t, domain.DefaultTemplate, saved.DisplayTemplate)

	template := "minimalist"
	saved, err = repo.UpdateSettings(ctx, "op", domain.Patch{DisplayTemplate: &template})
	require.NoError(t, err)
	assert.Equal(t, "08123456", saved.DefaultContactNumber)

	fetched, err := repo.GetSettings(ctx, "op")
	require.NoError(t, err)
	assert.Equal(t, saved, fetched)
}
