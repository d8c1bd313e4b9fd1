package menuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	livesynchttpmapper "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/adapters/http/mapper"
	livesyncapp "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/application"
	livesyncdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
)

// StatusReader reports replica freshness.
type StatusReader interface {
	Status() livesyncapp.StatusView
}

// ConnectionServer upgrades a request into a live update stream.
type ConnectionServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// LiveAPI exposes live updates and the sync status banner.
type LiveAPI struct {
	hub    ConnectionServer
	status StatusReader
}

func NewLiveAPI(hub ConnectionServer, status StatusReader) LiveAPI {
	return LiveAPI{hub: hub, status: status}
}

// Get /v1/live
// Websocket stream of catalog, settings and status frames
func (api *LiveAPI) Live(c *gin.Context) {
	if api.hub == nil {
		DefaultHandleFunc(c)
		return
	}
	api.hub.ServeWS(c.Writer, c.Request)
}

// Get /v1/live/status
func (api *LiveAPI) Status(c *gin.Context) {
	c.JSON(http.StatusOK, syncStatus(api.status))
}

// syncStatus treats a missing reader as a replica without a feed, which is always live.
func syncStatus(reader StatusReader) livesynchttpmapper.SyncStatus {
	if reader == nil {
		return livesynchttpmapper.FromStatusView(livesyncapp.StatusView{Status: livesyncdomain.StatusLive})
	}
	return livesynchttpmapper.FromStatusView(reader.Status())
}
