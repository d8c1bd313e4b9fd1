package menuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingshttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/http/mapper"
	settingsports "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
)

// SettingsAPI wires HTTP transport with the settings bounded context service.
type SettingsAPI struct {
	service settingsports.Service
}

func NewSettingsAPI(service settingsports.Service) SettingsAPI {
	return SettingsAPI{service: service}
}

// Get /v1/settings
func (api *SettingsAPI) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settingshttpmapper.FromProjection(api.service.Get(c.Request.Context())))
}

// Patch /v1/settings
// Absent fields keep their current value
func (api *SettingsAPI) UpdateSettings(c *gin.Context) {
	var payload settingshttpmapper.SettingsPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := api.service.Update(ctx, settingshttpmapper.ToPatch(payload)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.FromProjection(api.service.Get(ctx)))
}
