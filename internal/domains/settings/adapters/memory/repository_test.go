package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
)

func TestRepositoryGetMissing(t *testing.T) {
	repo := NewRepository()

	_, err := repo.GetSettings(context.Background(), "op-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepositoryUpdateCreatesFromDefaults(t *testing.T) {
	repo := NewRepository()
	number := "+62 812-3456"

	saved, err := repo.UpdateSettings(context.Background(), "op-1", domain.Patch{DefaultContactNumber: &number})
	require.NoError(t, err)
	require.Equal(t, "628123456", saved.DefaultContactNumber)
	require.Equal(t, domain.DefaultTemplate, saved.DisplayTemplate)

	loaded, err := repo.GetSettings(context.Background(), "op-1")
	require.NoError(t, err)
	require.Equal(t, saved, loaded)
}

func TestRepositoryUpdateRejectsInvalidPatch(t *testing.T) {
	repo := NewRepository()
	template := "neon"

	_, err := repo.UpdateSettings(context.Background(), "op-1", domain.Patch{DisplayTemplate: &template})
	require.ErrorIs(t, err, domain.ErrInvalidTemplate)

	_, err = repo.GetSettings(context.Background(), "op-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
