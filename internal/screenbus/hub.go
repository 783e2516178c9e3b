// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package screenbus

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub maintains one Client per connected screen, keyed by the screen's
// self-reported id, and serializes registration/unregistration through a
// single goroutine. Unlike a broadcast-to-everyone hub, Send/Fanout here
// always address a specific screen id set resolved upstream by
// internal/registry.
type Hub struct {
	cfg     config.ScreenbusConfig
	handler InboundHandler

	mu      sync.RWMutex
	clients map[string]*Client // screenID -> client

	register   chan *Client
	unregister chan *Client

	dropMu sync.Mutex
	drops  map[string]int64
}

// NewHub creates a Hub bound to the given screen-facing queue configuration
// and inbound message handler.
func NewHub(cfg config.ScreenbusConfig, handler InboundHandler) *Hub {
	if cfg.OutboundQueueSize <= 0 {
		cfg.OutboundQueueSize = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Hub{
		cfg:        cfg,
		handler:    handler,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		drops:      make(map[string]int64),
	}
}

// RunWithContext processes registration/unregistration until ctx is
// canceled, at which point every connected client is closed. It is
// supervised through services.NewWebSocketHubService, since RunWithContext
// matches that adapter's ContextHub interface.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logShutdown(ctx)
			return ctx.Err()
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	if old, ok := h.clients[c.screenID]; ok && old != c {
		close(old.send)
	}
	h.clients[c.screenID] = c
	total := len(h.clients)
	h.mu.Unlock()
	metrics.SetScreenConnections(total)
	logging.Info().Str("screen_id", c.screenID).Int("total_screens", total).Msg("screen connected")
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	var removed bool
	if current, ok := h.clients[c.screenID]; ok && current == c {
		delete(h.clients, c.screenID)
		close(c.send)
		removed = true
	}
	total := len(h.clients)
	h.mu.Unlock()
	if removed {
		metrics.SetScreenConnections(total)
		logging.Info().Str("screen_id", c.screenID).Int("total_screens", total).Msg("screen disconnected")
		if h.handler != nil {
			h.handler.HandleDisconnect(c.screenID)
		}
	}
}

func (h *Hub) logShutdown(ctx context.Context) {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id, c := range h.clients {
		ids = append(ids, id)
		close(c.send)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	sort.Strings(ids)
	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}
	logging.Info().
		Str("component", "screenbus").
		Str("reason", string(reason)).
		Int("screens_closed", len(ids)).
		Msg("screenbus hub stopped")
}

// Connected reports whether screenID currently has a live connection.
func (h *Hub) Connected(screenID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[screenID]
	return ok
}

// ConnectedScreens returns the ids of every currently connected screen,
// sorted for deterministic iteration.
func (h *Hub) ConnectedScreens() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of connected screens.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send enqueues msg on screenID's outbound queue. Returns false if the
// screen is not connected (a no-op, not an error — callers treat
// false as "not delivered"). On a full queue the oldest
// queued message is dropped and the screen's drop counter is incremented.
func (h *Hub) Send(screenID string, msg ServerMessage) bool {
	h.mu.RLock()
	c, ok := h.clients[screenID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	for {
		select {
		case c.send <- msg:
			metrics.RecordScreenMessageSent(msg.Type)
			return true
		default:
		}
		// Queue full: drop the oldest queued message and retry the send.
		select {
		case <-c.send:
			h.incDrop(screenID)
		default:
			// Raced with a concurrent drain; just retry the send.
		}
	}
}

// Fanout sends msg to every id in screenIDs, returning the number actually
// delivered (connected).
func (h *Hub) Fanout(screenIDs []string, msg ServerMessage) int {
	dispatched := 0
	for _, id := range screenIDs {
		if h.Send(id, msg) {
			dispatched++
		}
	}
	return dispatched
}

func (h *Hub) incDrop(screenID string) {
	h.dropMu.Lock()
	h.drops[screenID]++
	h.dropMu.Unlock()
	metrics.RecordScreenMessageDropped(screenID)
	logging.Warn().Str("screen_id", screenID).Msg("outbound queue full, dropped oldest message")
}

// DroppedCount returns the number of messages dropped for screenID due to
// outbound queue overflow since process start.
func (h *Hub) DroppedCount(screenID string) int64 {
	h.dropMu.Lock()
	defer h.dropMu.Unlock()
	return h.drops[screenID]
}

// registerClient is called by the HTTP upgrade handler once a Client is
// constructed for a newly connected screen.
func (h *Hub) registerClient(c *Client) {
	h.register <- c
}

// unregisterClient is called by Client.readPump on disconnect.
func (h *Hub) unregisterClient(c *Client) {
	h.unregister <- c
}
