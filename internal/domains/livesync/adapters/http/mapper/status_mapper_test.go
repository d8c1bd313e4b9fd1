package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/application"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
)

func TestFromStatusView_FlagsOutdatedViews(t *testing.T) {
	synced := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := FromStatusView(application.StatusView{
		Status:       domain.StatusOutdated,
		Failures:     4,
		LastSyncedAt: synced,
		LastError:    "change feed subscription lost",
	})
	assert.True(t, status.Degraded)
	assert.Equal(t, "outdated", status.Status)
	require.NotNil(t, status.LastSyncedAt)
	assert.Equal(t, synced, *status.LastSyncedAt)
}

func TestFromStatusView_OmitsUnsyncedTime(t *testing.T) {
	status := FromStatusView(application.StatusView{Status: domain.StatusConnecting})
	assert.False(t, status.Degraded)
	assert.Nil(t, status.LastSyncedAt)
}
