// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"
	"time"

	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// Compile-time assertion that Registry satisfies screenbus.InboundHandler.
var _ screenbus.InboundHandler = (*Registry)(nil)

// HandleRegister upserts the screen catalogue row on a player:register
// frame. Errors are logged, not propagated: the websocket protocol has no
// request/response correlation for inbound frames.
func (r *Registry) HandleRegister(p screenbus.RegisterPayload) {
	ctx := context.Background()
	clientID, err := r.resolveClientID(ctx, p.ClientID)
	if err != nil {
		logging.Warn().Err(err).Str("screen_id", p.ScreenID).Msg("registry: register with unknown client")
		return
	}

	var locationID *string
	if p.LocationID != "" {
		locationID = &p.LocationID
	}

	_, err = r.RegisterScreen(ctx, clientID, p.ScreenID, models.Screen{
		Name:        p.Name,
		GroupID:     p.GroupID,
		LocationID:  locationID,
		Platform:    p.Platform,
		Resolution:  p.Resolution,
		Orientation: p.Orientation,
		Capabilities: p.Capabilities,
	})
	if err != nil {
		logging.Error().Err(err).Str("screen_id", p.ScreenID).Msg("registry: register failed")
		return
	}
	r.broadcastScreensUpdate(ctx, clientID)
}

// HandleHeartbeat refreshes last_seen/status and, if present, the cached
// screenshot thumbnail a heartbeat may opportunistically carry.
func (r *Registry) HandleHeartbeat(p screenbus.HeartbeatPayload) {
	now := time.Now().UnixMilli()
	_, err := r.conn().ExecContext(context.Background(),
		`UPDATE screens SET status = ?, last_seen = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.ScreenStatusOnline, now, p.ScreenID)
	if err != nil {
		logging.Error().Err(err).Str("screen_id", p.ScreenID).Msg("registry: heartbeat update failed")
		return
	}
	if len(p.Screenshot) > 0 {
		r.mu.Lock()
		r.screenshots[p.ScreenID] = Screenshot{Image: p.Screenshot, Taken: time.Now()}
		r.mu.Unlock()
	}
}

// HandleReady is a no-op placeholder for the player:ready lifecycle event;
// internal/syncengine consumes it to know a screen is ready to join a group
// rollcall. The registry itself has nothing to persist for it.
func (r *Registry) HandleReady(screenbus.ReadyPayload) {}

// HandleSyncAck is consumed by internal/syncengine; the registry has no
// catalogue state to update for it.
func (r *Registry) HandleSyncAck(screenbus.SyncAckPayload) {}

// HandleScreenshot caches the most recent screenshot:response image for
// captureScreenshot callers to retrieve.
func (r *Registry) HandleScreenshot(p screenbus.ScreenshotResponsePayload) {
	r.mu.Lock()
	r.screenshots[p.ScreenID] = Screenshot{Image: p.Image, Taken: time.Now()}
	r.mu.Unlock()
}

// HandleDisconnect marks a screen offline immediately on socket close,
// ahead of the next offline-scan tick.
func (r *Registry) HandleDisconnect(screenID string) {
	_, err := r.conn().ExecContext(context.Background(),
		`UPDATE screens SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.ScreenStatusOffline, screenID)
	if err != nil {
		logging.Error().Err(err).Str("screen_id", screenID).Msg("registry: mark offline on disconnect failed")
	}
}

// LastScreenshot returns the cached screenshot for a screen, if any.
func (r *Registry) LastScreenshot(screenID string) (Screenshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.screenshots[screenID]
	return s, ok
}

// broadcastScreensUpdate fans a screens:update frame out to every connected
// screen for clientID so players showing a directory/roster stay current.
func (r *Registry) broadcastScreensUpdate(ctx context.Context, clientID string) {
	if r.bus == nil {
		return
	}
	screens, err := r.ListScreens(ctx, clientID, "", "")
	if err != nil {
		logging.Warn().Err(err).Msg("registry: screens:update broadcast failed to list screens")
		return
	}
	ids := make([]string, 0, len(screens))
	for _, s := range screens {
		ids = append(ids, s.ID)
	}
	r.bus.Fanout(ids, screenbus.ServerMessage{
		Type: screenbus.ServerMsgScreensUpdate,
		Data: screens,
	})
}
