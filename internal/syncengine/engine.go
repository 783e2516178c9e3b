// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package syncengine

import (
	"context"
	"sync"
	"time"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// groupState is the Sync State Map entry for one playing (or stopped) Sync
// Group. Every field is guarded by mu; the timer callback and the public
// Play/Stop/Seek/Attach/Detach methods on the owning group all take mu
// before touching it, so a group's timer callback can never overlap with
// a play/stop/seek/attach/detach on the same group.
type groupState struct {
	mu sync.Mutex

	clientID   string
	mode       string
	items      []models.PlaylistItem
	screenIDs  []string // deterministic (sort_key, id) order
	itemIndex  int
	startedAt  time.Time
	playing    bool
	timer      *time.Timer
	generation uint64 // bumped on stop/reschedule to invalidate in-flight timer fires
}

// Engine owns the Sync State Map (one groupState per Sync Group id) and
// drives each playing group's advance timer.
type Engine struct {
	reg *registry.Registry
	bus *screenbus.Hub

	mu     sync.Mutex
	groups map[string]*groupState
}

// New constructs an Engine bound to reg (for catalogue lookups and screen
// assignment) and bus (for per-screen dispatch).
func New(reg *registry.Registry, bus *screenbus.Hub) *Engine {
	return &Engine{reg: reg, bus: bus, groups: make(map[string]*groupState)}
}

func (e *Engine) stateFor(groupID string) *groupState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.groups[groupID]
	if !ok {
		st = &groupState{}
		e.groups[groupID] = st
	}
	return st
}

// Snapshot reports a group's current playback position, for callers (the
// dashboard handler, tests) that need to read state without mutating it.
func (e *Engine) Snapshot(groupID string) (itemIndex int, playing bool) {
	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.itemIndex, st.playing
}

// Start satisfies services.StartStopper; the engine has no background loop
// of its own (every group's advance is driven by its own timer), so this
// is a lifecycle no-op kept for symmetry with registry/schedule/mood.
func (e *Engine) Start(context.Context) error { return nil }

// Stop cancels every playing group's pending timer so process shutdown
// leaves no dangling goroutine behind.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, st := range e.groups {
		st.mu.Lock()
		if st.timer != nil {
			st.timer.Stop()
		}
		st.playing = false
		st.mu.Unlock()
	}
	return nil
}

// Play starts (or restarts) playback of a Sync Group. playlistID, if empty,
// falls back to the group's configured default playlist.
func (e *Engine) Play(ctx context.Context, clientID, groupID, playlistID string) error {
	group, err := e.reg.GetSyncGroup(ctx, clientID, groupID)
	if err != nil {
		return err
	}
	if playlistID == "" {
		if group.PlaylistID == nil || *group.PlaylistID == "" {
			return apperrors.InvalidInputf("group has no default playlist; specify playlistId")
		}
		playlistID = *group.PlaylistID
	}
	playlist, err := e.reg.GetPlaylist(ctx, clientID, playlistID)
	if err != nil {
		return err
	}
	if len(playlist.Items) == 0 {
		return apperrors.EmptyPlaylistf("playlist has no items")
	}
	screens, err := e.reg.SyncGroupScreens(ctx, clientID, groupID)
	if err != nil {
		return err
	}
	ids := make([]string, len(screens))
	for i, s := range screens {
		ids[i] = s.ID
	}

	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()

	e.stopLocked(st)
	st.clientID = clientID
	st.mode = group.Mode
	st.items = playlist.Items
	st.screenIDs = ids
	st.itemIndex = 0
	st.startedAt = time.Now()
	st.playing = true
	st.generation++

	e.dispatchLocked(groupID, st, false)
	e.scheduleLocked(groupID, st)
	return nil
}

// StopGroup cancels a playing group's timer and clears its playback state.
// A stop on an already-stopped group is a no-op.
func (e *Engine) StopGroup(ctx context.Context, clientID, groupID string) error {
	if _, err := e.reg.GetSyncGroup(ctx, clientID, groupID); err != nil {
		return err
	}
	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()
	e.stopLocked(st)
	return nil
}

func (e *Engine) stopLocked(st *groupState) {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.playing = false
	st.generation++
}

// Seek jumps a playing group directly to itemIndex, re-broadcasting
// sync:seek plus fresh content. Valid only while the group is playing.
func (e *Engine) Seek(ctx context.Context, clientID, groupID string, itemIndex int) error {
	if _, err := e.reg.GetSyncGroup(ctx, clientID, groupID); err != nil {
		return err
	}
	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.playing {
		return apperrors.InvalidInputf("group is not playing")
	}
	if itemIndex < 0 || itemIndex >= len(st.items) {
		return apperrors.InvalidInputf("itemIndex out of range")
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	st.itemIndex = itemIndex
	st.startedAt = time.Now()
	st.generation++

	if e.bus != nil {
		e.bus.Fanout(st.screenIDs, screenbus.ServerMessage{
			Type: screenbus.ServerMsgSyncSeek,
			Data: map[string]interface{}{
				"groupId":   groupID,
				"itemIndex": st.itemIndex,
				"timestamp": st.startedAt.UnixMilli(),
				"duration":  st.items[st.itemIndex].Duration,
			},
		})
	}
	e.dispatchLocked(groupID, st, false)
	e.scheduleLocked(groupID, st)
	return nil
}

// scheduleLocked arms the one-shot advance timer for st's current item.
// Called with st.mu held.
func (e *Engine) scheduleLocked(groupID string, st *groupState) {
	duration := time.Duration(st.items[st.itemIndex].Duration) * time.Second
	if duration <= 0 {
		duration = 5 * time.Second
	}
	generation := st.generation
	st.timer = time.AfterFunc(duration, func() { e.onTick(groupID, generation) })
}

// onTick fires when a group's advance timer expires. generation guards
// against a stale timer firing after a concurrent stop/seek/play already
// rescheduled or cancelled it.
func (e *Engine) onTick(groupID string, generation uint64) {
	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.playing || st.generation != generation {
		return
	}
	st.itemIndex = (st.itemIndex + 1) % len(st.items)
	st.startedAt = time.Now()

	e.dispatchLocked(groupID, st, true)
	e.scheduleLocked(groupID, st)
}

// dispatchLocked fans out the current item to every group member, mode-
// aware, optionally preceded by a sync:tick broadcast. Called
// with st.mu held.
func (e *Engine) dispatchLocked(groupID string, st *groupState, announceAdvance bool) {
	if e.bus == nil {
		return
	}
	if announceAdvance {
		e.bus.Fanout(st.screenIDs, screenbus.ServerMessage{
			Type: screenbus.ServerMsgSyncTick,
			Data: map[string]interface{}{
				"groupId":   groupID,
				"itemIndex": st.itemIndex,
				"timestamp": st.startedAt.UnixMilli(),
				"duration":  st.items[st.itemIndex].Duration,
			},
		})
	}

	n := len(st.screenIDs)
	for i, screenID := range st.screenIDs {
		item, itemIdx := itemForScreen(st.mode, st.items, st.itemIndex, i, n)
		env := contentEnvelope(item, groupID, itemIdx, i, n)
		delivered := e.bus.Send(screenID, screenbus.ServerMessage{Type: screenbus.ServerMsgContent, Data: env})
		if !delivered {
			logging.Debug().Str("group_id", groupID).Str("screen_id", screenID).
				Msg("syncengine: content dispatch skipped, screen not connected")
		}
	}
}

// itemForScreen resolves which playlist item screenIndex of n should show
// under mirror/complementary/span mode semantics.
func itemForScreen(mode string, items []models.PlaylistItem, itemIndex, screenIndex, n int) (models.PlaylistItem, int) {
	switch mode {
	case models.SyncModeComplementary:
		idx := (itemIndex + screenIndex) % len(items)
		return items[idx], idx
	default: // mirror, span: every screen shows the same item
		return items[itemIndex], itemIndex
	}
}

func contentEnvelope(item models.PlaylistItem, groupID string, itemIndex, screenIndex, totalScreens int) models.Envelope {
	content := map[string]interface{}{
		"contentId":   item.ContentID,
		"url":         item.URL,
		"widget":      item.Widget,
		"config":      item.Config,
		"displayName": item.DisplayName,
		"groupId":     groupID,
		"itemIndex":   itemIndex,
		"screenIndex": screenIndex,
	}
	if totalScreens > 0 {
		content["totalScreens"] = totalScreens
	}
	return models.Envelope{
		Timestamp: time.Now().UnixMilli(),
		Source:    "sync",
		Type:      item.ContentType,
		Content:   content,
		Duration:  int64(item.Duration) * 1000,
	}
}
