package mapper

import (
	"time"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

// Settings is the HTTP representation of the operator settings.
type Settings struct {
	DefaultContactNumber string    `json:"defaultContactNumber"`
	DisplayTemplate      string    `json:"displayTemplate"`
	Version              uint64    `json:"version"`
	SyncedAt             time.Time `json:"syncedAt,omitempty"`
}

// SettingsPatch keeps field presence so absent fields stay untouched.
type SettingsPatch struct {
	DefaultContactNumber *string `json:"defaultContactNumber,omitempty"`
	DisplayTemplate      *string `json:"displayTemplate,omitempty"`
}

func ToPatch(payload SettingsPatch) domain.Patch {
	return domain.Patch{DefaultContactNumber: payload.DefaultContactNumber, DisplayTemplate: payload.DisplayTemplate}
}

func FromProjection(snapshot projection.Projection[domain.Settings]) Settings {
	return Settings{
		DefaultContactNumber: snapshot.Entity.DefaultContactNumber,
		DisplayTemplate:      snapshot.Entity.DisplayTemplate,
		Version:              snapshot.Metadata.Version,
		SyncedAt:             snapshot.Metadata.SyncedAt,
	}
}

func FromDomain(settings domain.Settings) Settings {
	return Settings{DefaultContactNumber: settings.DefaultContactNumber, DisplayTemplate: settings.DisplayTemplate}
}
