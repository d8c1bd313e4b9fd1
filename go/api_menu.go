package menuserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	livesynchttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/http/mapper"
	settingshttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/http/mapper"
	settingsports "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
)

// Menu is the customer-facing portal view.
type Menu struct {
	Items      []cataloghttpmapper.MenuItem  `json:"items"`
	Categories []string                      `json:"categories"`
	Settings   settingshttpmapper.Settings   `json:"settings"`
	Sync       livesynchttpmapper.SyncStatus `json:"sync"`
}

// MenuAPI renders the portal from the local replicas.
type MenuAPI struct {
	catalog  catalogports.Service
	settings settingsports.Service
	status   StatusReader
}

func NewMenuAPI(catalog catalogports.Service, settings settingsports.Service, status StatusReader) MenuAPI {
	return MenuAPI{catalog: catalog, settings: settings, status: status}
}

// Get /v1/menu
func (api *MenuAPI) GetMenu(c *gin.Context) {
	ctx := c.Request.Context()
	all := api.catalog.Snapshot(ctx).Entity
	items := all
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		var err error
		items, err = api.catalog.ListItems(ctx, catalogtypes.ListFilter{Category: category})
		if err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, Menu{
		Items:      cataloghttpmapper.FromDomainItems(items),
		Categories: categories(all),
		Settings:   settingshttpmapper.FromProjection(api.settings.Get(ctx)),
		Sync:       syncStatus(api.status),
	})
}

// categories lists distinct categories in catalog order.
func categories(items []catalogdomain.MenuItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Category)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
