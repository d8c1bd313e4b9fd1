package menuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderinghttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/http/mapper"
	orderingports "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

// IdempotencyHeader lets clients retry a checkout without sending the order twice.
const IdempotencyHeader = "Idempotency-Key"

// CartAPI wires HTTP transport with the ordering bounded context service.
type CartAPI struct {
	service orderingports.Service
}

func NewCartAPI(service orderingports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /v1/carts/:sessionId
func (api *CartAPI) GetCart(c *gin.Context) {
	view, err := api.service.View(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderinghttpmapper.FromCartView(view))
}

// Post /v1/carts/:sessionId/items
// Adds one unit of an item, creating the line if needed
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload orderinghttpmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.AddItem(c.Request.Context(), orderinghttpmapper.ToAddItemInput(c.Param("sessionId"), payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderinghttpmapper.FromCartView(view))
}

// Patch /v1/carts/:sessionId/items/:itemId
// Applies a signed quantity delta; lines reaching zero are removed
func (api *CartAPI) ChangeQuantity(c *gin.Context) {
	var payload orderinghttpmapper.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderinghttpmapper.ToChangeQuantityInput(c.Param("sessionId"), c.Param("itemId"), payload)
	view, err := api.service.ChangeQuantity(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderinghttpmapper.FromCartView(view))
}

// Post /v1/carts/:sessionId/checkout
// Sends the order message to the operator's contact number
func (api *CartAPI) Checkout(c *gin.Context) {
	var payload orderinghttpmapper.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBadRequest(c, err)
			return
		}
	}
	input := orderinghttpmapper.ToCheckoutInput(c.Param("sessionId"), c.GetHeader(IdempotencyHeader), payload)
	result, err := api.service.Checkout(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderinghttpmapper.FromCheckoutResult(result))
}
