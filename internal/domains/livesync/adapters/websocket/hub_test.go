package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestHub_BroadcastsToConnectedClients(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.CatalogReloaded(context.Background(), []string{"Coffee", "Tea"})
	frame := readMessage(t, conn)
	assert.JSONEq(t, `"catalog"`, string(frame["event"]))
	assert.JSONEq(t, `["Coffee","Tea"]`, string(frame["payload"]))
}

func TestHub_ReplaysLatestStateOnConnect(t *testing.T) {
	hub := NewHub(nil)
	hub.StatusChanged(context.Background(), domain.StatusOutdated)
	hub.SettingsChanged(context.Background(), map[string]string{"displayTemplate": "colorful"})

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()
	conn := dial(t, server)

	status := readMessage(t, conn)
	assert.JSONEq(t, `"status"`, string(status["event"]))
	assert.JSONEq(t, `{"status":"outdated","degraded":true}`, string(status["payload"]))

	settings := readMessage(t, conn)
	assert.JSONEq(t, `"settings"`, string(settings["event"]))
}

func TestHub_ForgetsDisconnectedClients(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_DropsClientThatStopsReading(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	dial(t, server) // never reads
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	payload := strings.Repeat("x", 64*1024)
	started := time.Now()
	for i := 0; i < 400 && hub.Clients() > 0; i++ {
		hub.CatalogReloaded(context.Background(), payload)
	}
	assert.Less(t, time.Since(started), 2*time.Second)
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)

	fresh := dial(t, server)
	frame := readMessage(t, fresh)
	assert.JSONEq(t, `"catalog"`, string(frame["event"]))
}

func TestHub_ChecksAllowedOrigins(t *testing.T) {
	hub := NewHub(nil, WithAllowedOrigins([]string{"https://menu.example/"}))
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://menu.example"}})
	require.NoError(t, err)
	conn.Close()
}

func TestHub_AllowsAnyOriginByDefault(t *testing.T) {
	hub := NewHub(nil, WithAllowedOrigins([]string{"*"}))
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://anywhere.example"}})
	require.NoError(t, err)
	conn.Close()
}
