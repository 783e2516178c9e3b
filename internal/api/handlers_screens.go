// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// ListScreens handles GET /api/screens, optionally filtered by
// ?locationId= and/or ?groupId=.
func (h *Handler) ListScreens(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	screens, err := h.registry.ListScreens(r.Context(), clientID, r.URL.Query().Get("locationId"), r.URL.Query().Get("groupId"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(screens)
}

// GetScreen handles GET /api/screens/:id.
func (h *Handler) GetScreen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	screen, err := h.registry.GetScreen(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(screen)
}

// CreateScreen handles POST /api/screens: an administrator pre-registering
// a screen by id, ahead of the device's own player:register handshake.
func (h *Handler) CreateScreen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var s models.Screen
	if err := decodeAndValidate(r, &s); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	created, err := h.registry.RegisterScreen(r.Context(), clientID, s.ID, s)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Created(created)
}

// UpdateScreen handles PUT /api/screens/:id.
func (h *Handler) UpdateScreen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var s models.Screen
	if err := decodeAndValidate(r, &s); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	updated, err := h.registry.UpdateScreen(r.Context(), clientID, urlParam(r, "id"), s)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(updated)
}

// DeleteScreen handles DELETE /api/screens/:id.
func (h *Handler) DeleteScreen(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	if err := h.registry.DeleteScreen(r.Context(), clientID, urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// forceModeRequest is the body of POST /api/screens/:id/mode.
type forceModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=signage interactive"`
}

// ForceScreenMode handles POST /api/screens/:id/mode.
func (h *Handler) ForceScreenMode(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req forceModeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	if err := h.registry.ForceMode(r.Context(), clientID, urlParam(r, "id"), req.Mode); err != nil {
		rw.FromDomainError(err)
		return
	}
	h.audit.LogForceMode(clientID, urlParam(r, "id"), req.Mode, r.RemoteAddr)
	rw.NoContent()
}
