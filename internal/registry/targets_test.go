// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

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

	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// connectScreen dials a test websocket server fronting reg's hub and sends a
// player:register frame for screenID, returning the live connection.
func connectScreen(t *testing.T, server *httptest.Server, screenID, clientID, groupID, locationID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	payload, err := json.Marshal(screenbus.RegisterPayload{
		ScreenID: screenID, ClientID: clientID, GroupID: groupID, LocationID: locationID, Name: screenID,
	})
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &data))

	msg := screenbus.ClientMessage{Type: screenbus.ClientMsgRegister, Data: data}
	require.NoError(t, conn.WriteJSON(msg))
	return conn
}

func newTestServer(t *testing.T, reg *Registry, bus *screenbus.Hub) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := screenbus.Upgrade(bus, w, r); err != nil {
			t.Logf("screenbus upgrade failed: %v", err)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.RunWithContext(ctx)
	return server
}

func TestResolveTarget_AllReturnsEveryConnectedScreen(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()
	c, err := reg.CreateClient(ctx, models.Client{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	server := newTestServer(t, reg, reg.bus)

	connectScreen(t, server, "s1", c.ID, "", "")
	connectScreen(t, server, "s2", c.ID, "", "")

	require.Eventually(t, func() bool { return reg.bus.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	ids, err := reg.ResolveTarget(ctx, c.ID, models.ScreenTargetAll)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)
}

func TestResolveTarget_GroupBeforeLocation(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()
	c, err := reg.CreateClient(ctx, models.Client{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	loc, err := reg.CreateLocation(ctx, c.ID, models.Location{Name: "Garage A"})
	require.NoError(t, err)
	server := newTestServer(t, reg, reg.bus)

	connectScreen(t, server, "s1", c.ID, "entrance", loc.ID)
	connectScreen(t, server, "s2", c.ID, "", loc.ID)

	require.Eventually(t, func() bool { return reg.bus.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	ids, err := reg.ResolveTarget(ctx, c.ID, "entrance")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	ids, err = reg.ResolveTarget(ctx, c.ID, loc.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)
}

func TestResolveTarget_UnmatchedTargetReturnsEmpty(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()
	c, err := reg.CreateClient(ctx, models.Client{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)

	ids, err := reg.ResolveTarget(ctx, c.ID, "no-such-target")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPush_DispatchesToResolvedTargetOnly(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()
	c, err := reg.CreateClient(ctx, models.Client{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	server := newTestServer(t, reg, reg.bus)

	conn1 := connectScreen(t, server, "s1", c.ID, "", "")
	connectScreen(t, server, "s2", c.ID, "", "")
	require.Eventually(t, func() bool { return reg.bus.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	result, err := reg.Push(ctx, c.ID, "s1", models.Envelope{Type: models.EnvelopeTypeURL, Content: map[string]interface{}{"url": "https://example.com"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Dispatched)

	_ = conn1.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg screenbus.ServerMessage
	require.NoError(t, conn1.ReadJSON(&msg))
	assert.Equal(t, screenbus.ServerMsgContent, msg.Type)
}
