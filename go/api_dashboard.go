package menuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	livesynchttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/http/mapper"
	orderingports "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/money"
)

// Dashboard summarizes the operator's menu.
type Dashboard struct {
	ItemCount           int                           `json:"itemCount"`
	InventoryValue      int64                         `json:"inventoryValue"`
	InventoryValueLabel string                        `json:"inventoryValueLabel"`
	SubmittedOrders     int64                         `json:"submittedOrders"`
	Sync                livesynchttpmapper.SyncStatus `json:"sync"`
}

type DashboardAPI struct {
	catalog  catalogports.Service
	ordering orderingports.Service
	status   StatusReader
}

func NewDashboardAPI(catalog catalogports.Service, ordering orderingports.Service, status StatusReader) DashboardAPI {
	return DashboardAPI{catalog: catalog, ordering: ordering, status: status}
}

// Get /v1/dashboard
func (api *DashboardAPI) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	items := api.catalog.Snapshot(ctx).Entity
	var total int64
	for _, item := range items {
		total += item.PriceMinor
	}
	var submitted int64
	if api.ordering != nil {
		count, err := api.ordering.SubmittedOrders(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		submitted = count
	}
	c.JSON(http.StatusOK, Dashboard{
		ItemCount:           len(items),
		InventoryValue:      total,
		InventoryValueLabel: money.Format(total),
		SubmittedOrders:     submitted,
		Sync:                syncStatus(api.status),
	})
}
