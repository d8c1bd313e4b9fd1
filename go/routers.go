package menuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the menu routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the catalog part of the API
	CatalogAPI CatalogAPI
	// Routes for the settings part of the API
	SettingsAPI SettingsAPI
	// Routes for the cart part of the API
	CartAPI CartAPI
	// Routes for the menu part of the API
	MenuAPI MenuAPI
	// Routes for the live part of the API
	LiveAPI LiveAPI
	// Routes for the dashboard part of the API
	DashboardAPI DashboardAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListItems", http.MethodGet, "/v1/catalog/items", handleFunctions.CatalogAPI.ListItems},
		{"CreateItem", http.MethodPost, "/v1/catalog/items", handleFunctions.CatalogAPI.CreateItem},
		{"UpdateItem", http.MethodPut, "/v1/catalog/items/:itemId", handleFunctions.CatalogAPI.UpdateItem},
		{"DeleteItem", http.MethodDelete, "/v1/catalog/items/:itemId", handleFunctions.CatalogAPI.DeleteItem},
		{"MoveItem", http.MethodPost, "/v1/catalog/items/:itemId/move", handleFunctions.CatalogAPI.MoveItem},
		{"ReloadCatalog", http.MethodPost, "/v1/catalog/reload", handleFunctions.CatalogAPI.Reload},
		{"GetSettings", http.MethodGet, "/v1/settings", handleFunctions.SettingsAPI.GetSettings},
		{"UpdateSettings", http.MethodPatch, "/v1/settings", handleFunctions.SettingsAPI.UpdateSettings},
		{"GetDashboard", http.MethodGet, "/v1/dashboard", handleFunctions.DashboardAPI.GetDashboard},
		{"GetMenu", http.MethodGet, "/v1/menu", handleFunctions.MenuAPI.GetMenu},
		{"GetCart", http.MethodGet, "/v1/carts/:sessionId", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/carts/:sessionId/items", handleFunctions.CartAPI.AddItem},
		{"ChangeCartItemQuantity", http.MethodPatch, "/v1/carts/:sessionId/items/:itemId", handleFunctions.CartAPI.ChangeQuantity},
		{"Checkout", http.MethodPost, "/v1/carts/:sessionId/checkout", handleFunctions.CartAPI.Checkout},
		{"Live", http.MethodGet, "/v1/live", handleFunctions.LiveAPI.Live},
		{"LiveStatus", http.MethodGet, "/v1/live/status", handleFunctions.LiveAPI.Status},
	}
}
