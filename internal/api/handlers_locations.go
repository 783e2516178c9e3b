// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// ListLocations handles GET /api/locations.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	locations, err := h.registry.ListLocations(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(locations)
}

// GetLocation handles GET /api/locations/:id.
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	location, err := h.registry.GetLocation(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(location)
}

// CreateLocation handles POST /api/locations.
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var l models.Location
	if err := decodeAndValidate(r, &l); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	created, err := h.registry.CreateLocation(r.Context(), clientID, l)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Created(created)
}

// UpdateLocation handles PUT /api/locations/:id.
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var l models.Location
	if err := decodeAndValidate(r, &l); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	updated, err := h.registry.UpdateLocation(r.Context(), clientID, urlParam(r, "id"), l)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(updated)
}

// DeleteLocation handles DELETE /api/locations/:id.
func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	if err := h.registry.DeleteLocation(r.Context(), clientID, urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}

// assignScreensRequest is the body of POST /api/locations/:id/screens.
type assignScreensRequest struct {
	ScreenIDs []string `json:"screenIds" validate:"required,min=1"`
}

// AssignScreensToLocation handles POST /api/locations/:id/screens: each
// named screen's LocationID is set to the path location. There is no
// dedicated registry assignment method, so this loops GetScreen+UpdateScreen
// per screen id, the same partial-update path the screen-editing UI uses.
func (h *Handler) AssignScreensToLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	locationID := urlParam(r, "id")
	if _, err := h.registry.GetLocation(r.Context(), clientID, locationID); err != nil {
		rw.FromDomainError(err)
		return
	}

	var req assignScreensRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}

	var updated []models.Screen
	for _, screenID := range req.ScreenIDs {
		screen, err := h.registry.GetScreen(r.Context(), clientID, screenID)
		if err != nil {
			rw.FromDomainError(err)
			return
		}
		screen.LocationID = &locationID
		screen, err = h.registry.UpdateScreen(r.Context(), clientID, screenID, screen)
		if err != nil {
			rw.FromDomainError(err)
			return
		}
		updated = append(updated, screen)
	}
	rw.Success(updated)
}

// PushToLocation handles POST /api/locations/:id/push: dispatches an
// envelope to every connected screen at the location, via the generic
// target resolution path (a location id is one of ResolveTarget's four
// target kinds).
func (h *Handler) PushToLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var env models.Envelope
	if err := decodeAndValidate(r, &env); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	result, err := h.registry.Push(r.Context(), clientID, urlParam(r, "id"), env)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}
