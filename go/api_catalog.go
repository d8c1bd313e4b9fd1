package menuserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
)

// Resyncer forces a full reload of every replica.
type Resyncer interface {
	Resync(ctx context.Context) error
}

// CatalogAPI wires HTTP transport with the catalog bounded context service.
type CatalogAPI struct {
	service  catalogports.Service
	resyncer Resyncer
}

// NewCatalogAPI creates a CatalogAPI. resyncer may be nil, in which case a
// reload only refreshes the catalog.
func NewCatalogAPI(service catalogports.Service, resyncer Resyncer) CatalogAPI {
	return CatalogAPI{service: service, resyncer: resyncer}
}

// Get /v1/catalog/items
// Ordered view of the catalog, optionally narrowed by ?category=
func (api *CatalogAPI) ListItems(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := api.service.ListItems(ctx, catalogtypes.ListFilter{Category: c.Query("category")})
	if err != nil {
		respondError(c, err)
		return
	}
	snapshot := api.service.Snapshot(ctx)
	c.JSON(http.StatusOK, cataloghttpmapper.Catalog{
		Items:    cataloghttpmapper.FromDomainItems(items),
		Version:  snapshot.Metadata.Version,
		SyncedAt: snapshot.Metadata.SyncedAt,
	})
}

// Post /v1/catalog/items
// Appends a new item at the end of the catalog
func (api *CatalogAPI) CreateItem(c *gin.Context) {
	var payload cataloghttpmapper.ItemMutation
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := cataloghttpmapper.ToCreateInput(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.CreateItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainItem(item))
}

// Put /v1/catalog/items/:itemId
// Edits an item without moving it
func (api *CatalogAPI) UpdateItem(c *gin.Context) {
	var payload cataloghttpmapper.ItemMutation
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := cataloghttpmapper.ToUpdateInput(c.Param("itemId"), payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainItem(item))
}

// Delete /v1/catalog/items/:itemId
// Removes an item and closes the gap it leaves
func (api *CatalogAPI) DeleteItem(c *gin.Context) {
	result, err := api.service.DeleteItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromMoveResult(result))
}

// Post /v1/catalog/items/:itemId/move
// Applies a drag gesture; persistence continues after the response
func (api *CatalogAPI) MoveItem(c *gin.Context) {
	var payload cataloghttpmapper.MoveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.MoveItem(c.Request.Context(), cataloghttpmapper.ToMoveInput(c.Param("itemId"), payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromMoveResult(result))
}

// Post /v1/catalog/reload
// Forces a full resynchronization from persistence
func (api *CatalogAPI) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	var err error
	if api.resyncer != nil {
		err = api.resyncer.Resync(ctx)
	} else {
		_, err = api.service.Reload(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromSnapshot(api.service.Snapshot(ctx)))
}
