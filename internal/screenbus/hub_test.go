// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package screenbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensignage/cartograph/internal/config"
)

type noopHandler struct {
	disconnected []string
}

func (n *noopHandler) HandleRegister(RegisterPayload)                   {}
func (n *noopHandler) HandleHeartbeat(HeartbeatPayload)                 {}
func (n *noopHandler) HandleReady(ReadyPayload)                         {}
func (n *noopHandler) HandleSyncAck(SyncAckPayload)                     {}
func (n *noopHandler) HandleScreenshot(ScreenshotResponsePayload)       {}
func (n *noopHandler) HandleDisconnect(screenID string) {
	n.disconnected = append(n.disconnected, screenID)
}

func newTestClient(screenID string, hub *Hub) *Client {
	return &Client{screenID: screenID, hub: hub, send: make(chan ServerMessage, hub.cfg.OutboundQueueSize)}
}

func TestHub_SendToUnconnectedScreenIsNoopSuccess(t *testing.T) {
	hub := NewHub(config.ScreenbusConfig{OutboundQueueSize: 4}, &noopHandler{})
	delivered := hub.Send("missing", ServerMessage{Type: ServerMsgContent})
	assert.False(t, delivered)
}

func TestHub_RegisterAndSend(t *testing.T) {
	handler := &noopHandler{}
	hub := NewHub(config.ScreenbusConfig{OutboundQueueSize: 4, WriteTimeout: time.Second}, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.RunWithContext(ctx)

	c := newTestClient("s1", hub)
	hub.registerClient(c)

	require.Eventually(t, func() bool { return hub.Connected("s1") }, time.Second, 5*time.Millisecond)

	delivered := hub.Send("s1", ServerMessage{Type: ServerMsgContent, Data: "x"})
	assert.True(t, delivered)

	select {
	case msg := <-c.send:
		assert.Equal(t, ServerMsgContent, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected message on client send channel")
	}
}

func TestHub_OverflowDropsOldest(t *testing.T) {
	handler := &noopHandler{}
	hub := NewHub(config.ScreenbusConfig{OutboundQueueSize: 2, WriteTimeout: time.Second}, handler)
	c := newTestClient("s1", hub)
	hub.mu.Lock()
	hub.clients["s1"] = c
	hub.mu.Unlock()

	hub.Send("s1", ServerMessage{Type: "1"})
	hub.Send("s1", ServerMessage{Type: "2"})
	hub.Send("s1", ServerMessage{Type: "3"}) // overflow: drops "1"

	first := <-c.send
	second := <-c.send
	assert.Equal(t, "2", first.Type)
	assert.Equal(t, "3", second.Type)
	assert.EqualValues(t, 1, hub.DroppedCount("s1"))
}

func TestHub_Fanout(t *testing.T) {
	hub := NewHub(config.ScreenbusConfig{OutboundQueueSize: 4}, &noopHandler{})
	a := newTestClient("a", hub)
	b := newTestClient("b", hub)
	hub.mu.Lock()
	hub.clients["a"] = a
	hub.clients["b"] = b
	hub.mu.Unlock()

	dispatched := hub.Fanout([]string{"a", "b", "missing"}, ServerMessage{Type: ServerMsgContextMood})
	assert.Equal(t, 2, dispatched)
}

func TestHub_RunWithContext_ShutdownClosesClients(t *testing.T) {
	handler := &noopHandler{}
	hub := NewHub(config.ScreenbusConfig{OutboundQueueSize: 4}, handler)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	c := newTestClient("s1", hub)
	hub.registerClient(c)
	require.Eventually(t, func() bool { return hub.Connected("s1") }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
	assert.Equal(t, 0, hub.Count())
}
