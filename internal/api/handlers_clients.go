// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// ListClients handles GET /api/clients. Tenants are not themselves
// tenant-scoped, so this always lists every client.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clients, err := h.registry.ListClients(r.Context())
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(clients)
}

// GetClient handles GET /api/clients/:id.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	client, err := h.registry.GetClient(r.Context(), urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(client)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var c models.Client
	if err := decodeAndValidate(r, &c); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	created, err := h.registry.CreateClient(r.Context(), c)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Created(created)
}

// UpdateClient handles PUT /api/clients/:id.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var c models.Client
	if err := decodeAndValidate(r, &c); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	updated, err := h.registry.UpdateClient(r.Context(), urlParam(r, "id"), c)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(updated)
}

// DeleteClient handles DELETE /api/clients/:id. The bootstrap client
// (parkwise) is rejected with FORBIDDEN by the registry.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.registry.DeleteClient(r.Context(), urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.NoContent()
}
