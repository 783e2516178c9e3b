// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// ListPlaylists handles GET /api/playlists.
func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	playlists, err := h.registry.ListPlaylists(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(playlists)
}

// GetPlaylist handles GET /api/playlists/:id.
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	playlist, err := h.registry.GetPlaylist(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(playlist)
}

// CreatePlaylist handles POST /api/playlists.
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var p models.Playlist
	if err := decodeAndValidate(r, &p); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	created, err := h.registry.CreatePlaylist(r.Context(), clientID, p)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Created(created)
}

// UpdatePlaylist handles PUT /api/playlists/:id.
func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var p models.Playlist
	if err := decodeAndValidate(r, &p); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	updated, err := h.registry.UpdatePlaylist(r.Context(), clientID, urlParam(r, "id"), p)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(updated)
}

// DeletePlaylist handles DELETE /api/playlists/:id.
func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	if err := h.registry.DeletePlaylist(r.Context(), clientID, urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// pushPlaylistRequest is the body of POST /api/playlists/:id/push.
type pushPlaylistRequest struct {
	Target string `json:"target" validate:"required"`
}

// PushPlaylist handles POST /api/playlists/:id/push: dispatches the whole
// playlist as a single envelope to target, for screens that play a
// playlist directly rather than joining a Sync Engine group.
func (h *Handler) PushPlaylist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	playlist, err := h.registry.GetPlaylist(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req pushPlaylistRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}

	env := models.Envelope{
		Source: "playlist-push",
		Type:   models.EnvelopeTypePlaylist,
		Content: map[string]interface{}{
			"playlistId": playlist.ID,
			"items":      playlist.Items,
			"loop":       playlist.Loop,
			"transition": playlist.Transition,
		},
	}
	result, err := h.registry.Push(r.Context(), clientID, req.Target, env)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}
