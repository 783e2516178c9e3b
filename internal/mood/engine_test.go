// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package mood

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/database"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/screenbus"
)

var testDBSemaphore = make(chan struct{}, 1)

func connectScreen(t *testing.T, server *httptest.Server, screenID, clientID, locationID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	payload, err := json.Marshal(screenbus.RegisterPayload{
		ScreenID: screenID, ClientID: clientID, LocationID: locationID, Name: screenID,
	})
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &data))
	require.NoError(t, conn.WriteJSON(screenbus.ClientMessage{Type: screenbus.ClientMsgRegister, Data: data}))
	return conn
}

func TestEngine_BroadcastAll_SendsContextMoodToScreensAtLocation(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	reg := registry.New(db, config.RegistryConfig{OfflineThreshold: 90 * time.Second})
	bus := screenbus.NewHub(config.ScreenbusConfig{OutboundQueueSize: 8}, reg)
	reg.AttachBus(bus)

	ctx := context.Background()
	client, err := reg.CreateClient(ctx, models.Client{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	loc, err := reg.CreateLocation(ctx, client.ID, models.Location{Name: "Lobby"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := screenbus.Upgrade(bus, w, r); err != nil {
			t.Logf("upgrade failed: %v", err)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	busCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.RunWithContext(busCtx)

	conn := connectScreen(t, server, "s1", client.ID, loc.ID)
	require.Eventually(t, func() bool { return bus.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	engine := New(reg, bus, config.MoodConfig{BroadcastInterval: 30 * time.Millisecond, CollectorHTTPTimeout: time.Second})
	require.NoError(t, engine.Start(ctx))
	defer func() { _ = engine.Stop() }()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg screenbus.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, screenbus.ServerMsgContextMood, msg.Type)
}

func TestEngine_Current_DefaultsBeforeFirstInterpolation(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	reg := registry.New(db, config.RegistryConfig{OfflineThreshold: 90 * time.Second})
	bus := screenbus.NewHub(config.ScreenbusConfig{OutboundQueueSize: 8}, reg)
	reg.AttachBus(bus)

	engine := New(reg, bus, config.MoodConfig{CollectorHTTPTimeout: time.Second})
	v, _ := engine.Current("nonexistent-location")
	assert.Equal(t, models.DefaultMoodVector(), v)
}
