package mapper

import (
	"time"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/application"
)

// SyncStatus tells a view whether the data it shows may be outdated.
type SyncStatus struct {
	Status       string     `json:"status"`
	Degraded     bool       `json:"degraded"`
	Failures     int        `json:"failures"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}

func FromStatusView(view application.StatusView) SyncStatus {
	status := SyncStatus{
		Status:    string(view.Status),
		Degraded:  view.Status.Degraded(),
		Failures:  view.Failures,
		LastError: view.LastError,
	}
	if !view.LastSyncedAt.IsZero() {
		synced := view.LastSyncedAt
		status.LastSyncedAt = &synced
	}
	return status
}
