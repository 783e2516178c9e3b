// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// ListSyncGroups handles GET /api/sync-groups.
func (h *Handler) ListSyncGroups(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	groups, err := h.registry.ListSyncGroups(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(groups)
}

// GetSyncGroup handles GET /api/sync-groups/:id.
func (h *Handler) GetSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	group, err := h.registry.GetSyncGroup(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	itemIndex, playing := h.syncEngine.Snapshot(group.ID)
	rw.Success(struct {
		models.SyncGroup
		ItemIndex int  `json:"itemIndex"`
		Playing   bool `json:"playing"`
	}{SyncGroup: group, ItemIndex: itemIndex, Playing: playing})
}

// CreateSyncGroup handles POST /api/sync-groups.
func (h *Handler) CreateSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var g models.SyncGroup
	if err := decodeAndValidate(r, &g); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	created, err := h.registry.CreateSyncGroup(r.Context(), clientID, g)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Created(created)
}

// UpdateSyncGroup handles PUT /api/sync-groups/:id.
func (h *Handler) UpdateSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var g models.SyncGroup
	if err := decodeAndValidate(r, &g); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	updated, err := h.registry.UpdateSyncGroup(r.Context(), clientID, urlParam(r, "id"), g)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(updated)
}

// DeleteSyncGroup handles DELETE /api/sync-groups/:id: detaches every
// member screen and stops the Sync Engine's timer for the group before the
// row is removed.
func (h *Handler) DeleteSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	if err := h.syncEngine.DeleteGroup(r.Context(), clientID, urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// playRequest is the optional body of POST /api/sync-groups/:id/play.
type playRequest struct {
	PlaylistID string `json:"playlistId,omitempty"`
}

// PlaySyncGroup handles POST /api/sync-groups/:id/play. An omitted
// playlistId falls back to the group's configured default.
func (h *Handler) PlaySyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req playRequest
	if r.ContentLength > 0 {
		if err := decodeAndValidate(r, &req); err != nil {
			rw.InvalidInput(err.Error())
			return
		}
	}
	if err := h.syncEngine.Play(r.Context(), clientID, urlParam(r, "id"), req.PlaylistID); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// StopSyncGroup handles POST /api/sync-groups/:id/stop.
func (h *Handler) StopSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	if err := h.syncEngine.StopGroup(r.Context(), clientID, urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// seekRequest is the body of POST /api/sync-groups/:id/seek.
type seekRequest struct {
	ItemIndex int `json:"itemIndex" validate:"gte=0"`
}

// SeekSyncGroup handles POST /api/sync-groups/:id/seek.
func (h *Handler) SeekSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req seekRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	if err := h.syncEngine.Seek(r.Context(), clientID, urlParam(r, "id"), req.ItemIndex); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// IdentifySyncGroup handles POST /api/sync-groups/:id/identify.
func (h *Handler) IdentifySyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	result, err := h.syncEngine.Identify(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}

// ScreenshotSyncGroup handles POST /api/sync-groups/:id/screenshot.
func (h *Handler) ScreenshotSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	result, err := h.syncEngine.Screenshot(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}

// attachScreensRequest is the body of POST /api/sync-groups/:id/screens.
type attachScreensRequest struct {
	ScreenIDs []string `json:"screenIds" validate:"required,min=1"`
}

// AttachScreensToSyncGroup handles POST /api/sync-groups/:id/screens.
func (h *Handler) AttachScreensToSyncGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req attachScreensRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	groupID := urlParam(r, "id")
	for _, screenID := range req.ScreenIDs {
		if err := h.syncEngine.AttachScreen(r.Context(), clientID, groupID, screenID); err != nil {
			rw.FromDomainError(err)
			return
		}
	}
	screens, err := h.registry.SyncGroupScreens(r.Context(), clientID, groupID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(screens)
}
