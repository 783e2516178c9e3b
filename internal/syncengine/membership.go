// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package syncengine

import (
	"context"

	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// Identify broadcasts a command:identify frame to every member of groupID.
func (e *Engine) Identify(ctx context.Context, clientID, groupID string) (registry.PushResult, error) {
	return e.reg.Identify(ctx, clientID, groupID)
}

// Screenshot broadcasts a command:screenshot frame to every member of
// groupID; responses land in the registry's Screenshot Cache.
func (e *Engine) Screenshot(ctx context.Context, clientID, groupID string) (registry.PushResult, error) {
	return e.reg.CaptureScreenshot(ctx, clientID, groupID)
}

// AttachScreen adds screenID to groupID's membership. If the group is
// currently playing, the newly attached screen immediately receives a
// catch-up sync:state frame instead of waiting for the next tick.
func (e *Engine) AttachScreen(ctx context.Context, clientID, groupID, screenID string) error {
	if err := e.reg.AssignSyncGroup(ctx, clientID, screenID, &groupID); err != nil {
		return err
	}

	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !contains(st.screenIDs, screenID) {
		st.screenIDs = append(st.screenIDs, screenID)
	}
	if st.playing && e.bus != nil {
		idx := indexOf(st.screenIDs, screenID)
		item, itemIdx := itemForScreen(st.mode, st.items, st.itemIndex, idx, len(st.screenIDs))
		e.bus.Send(screenID, screenbus.ServerMessage{
			Type: screenbus.ServerMsgSyncState,
			Data: map[string]interface{}{
				"groupId":     groupID,
				"itemIndex":   itemIdx,
				"screenIndex": idx,
				"content":     contentEnvelope(item, groupID, itemIdx, idx, len(st.screenIDs)),
			},
		})
	}
	return nil
}

// DetachScreen removes screenID from groupID's membership.
func (e *Engine) DetachScreen(ctx context.Context, clientID, groupID, screenID string) error {
	if err := e.reg.AssignSyncGroup(ctx, clientID, screenID, nil); err != nil {
		return err
	}
	st := e.stateFor(groupID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.screenIDs = remove(st.screenIDs, screenID)
	return nil
}

// DeleteGroup cancels the group's timer, clears its in-memory state, and
// removes its catalogue row (the schema's ON DELETE SET NULL on
// screens.sync_group_id handles unassigning members).
func (e *Engine) DeleteGroup(ctx context.Context, clientID, groupID string) error {
	st := e.stateFor(groupID)
	st.mu.Lock()
	e.stopLocked(st)
	st.mu.Unlock()

	e.mu.Lock()
	delete(e.groups, groupID)
	e.mu.Unlock()

	return e.reg.DeleteSyncGroup(ctx, clientID, groupID)
}

func contains(ids []string, id string) bool {
	return indexOf(ids, id) >= 0
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func remove(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
