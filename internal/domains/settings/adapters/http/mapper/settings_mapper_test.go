package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

func TestToPatchKeepsPresence(t *testing.T) {
	template := "minimalist"
	patch := ToPatch(SettingsPatch{DisplayTemplate: &template})

	assert.Nil(t, patch.DefaultContactNumber)
	assert.Equal(t, &template, patch.DisplayTemplate)
	assert.True(t, ToPatch(SettingsPatch{}).Empty())
}

func TestFromProjection(t *testing.T) {
	syncedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	snapshot := projection.Projection[domain.Settings]{
		Entity:   domain.Settings{OperatorID: "op-1", DefaultContactNumber: "6281", DisplayTemplate: "colorful"},
		Metadata: projection.Metadata{Version: 3, SyncedAt: syncedAt},
	}

	got := FromProjection(snapshot)
	assert.Equal(t, Settings{DefaultContactNumber: "6281", DisplayTemplate: "colorful", Version: 3, SyncedAt: syncedAt}, got)
}
