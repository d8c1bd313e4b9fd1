package settings

import (
	"context"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
	settingsdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
)

// SettingsSource is the read side of the settings replica.
type SettingsSource interface {
	Get() settingsdomain.Settings
}

var _ ports.ContactDirectory = (*Directory)(nil)

// Directory reads the order destination from the operator settings replica.
type Directory struct {
	settings SettingsSource
}

func NewDirectory(settings SettingsSource) *Directory {
	return &Directory{settings: settings}
}

func (d *Directory) DefaultContactNumber(context.Context) (string, error) {
	return d.settings.Get().DefaultContactNumber, nil
}
