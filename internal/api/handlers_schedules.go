// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// ListSchedules handles GET /api/schedules.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	schedules, err := h.registry.ListSchedules(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(schedules)
}

// GetSchedule handles GET /api/schedules/:id.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	schedule, err := h.registry.GetSchedule(r.Context(), clientID, urlParam(r, "id"))
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(schedule)
}

// CreateSchedule handles POST /api/schedules. A schedule mutation always
// wakes the Schedule Evaluator via Touch so the new window takes effect
// without waiting for the next fixed tick.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var s models.Schedule
	if err := decodeAndValidate(r, &s); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	created, err := h.registry.CreateSchedule(r.Context(), clientID, s)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	h.schedule.Touch()
	rw.Created(created)
}

// UpdateSchedule handles PUT /api/schedules/:id.
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var s models.Schedule
	if err := decodeAndValidate(r, &s); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	updated, err := h.registry.UpdateSchedule(r.Context(), clientID, urlParam(r, "id"), s)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	h.schedule.Touch()
	rw.Success(updated)
}

// DeleteSchedule handles DELETE /api/schedules/:id.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	if err := h.registry.DeleteSchedule(r.Context(), clientID, urlParam(r, "id")); err != nil {
		rw.FromDomainError(err)
		return
	}
	h.schedule.Touch()
	rw.NoContent()
}
