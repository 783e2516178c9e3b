// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"
	"strconv"
	"time"
)

// componentHealth is one dependency's health row in the /health response.
type componentHealth struct {
	Status  string `json:"status"` // "up" | "down"
	Message string `json:"message,omitempty"`
}

// healthStatus is the aggregate health payload: overall status plus a
// per-component breakdown of the database and the supervised subsystems.
type healthStatus struct {
	Status      string                     `json:"status"` // "healthy" | "degraded"
	UptimeSecs  int64                      `json:"uptimeSeconds"`
	Components  map[string]componentHealth `json:"components"`
}

// Health reports the aggregate liveness of the database plus every
// supervised subsystem. A single unhealthy component degrades the overall
// status rather than failing the whole response.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	components := map[string]componentHealth{}
	overall := "healthy"

	if err := h.db.Ping(r.Context()); err != nil {
		components["database"] = componentHealth{Status: "down", Message: err.Error()}
		overall = "degraded"
	} else {
		components["database"] = componentHealth{Status: "up"}
	}

	components["screenbus"] = componentHealth{
		Status:  "up",
		Message: strconv.Itoa(h.bus.Count()) + " screens connected",
	}

	if h.eventBus.Enabled() {
		components["eventbus"] = componentHealth{Status: "up"}
	} else {
		components["eventbus"] = componentHealth{Status: "down", Message: "disabled"}
	}

	rw.Success(healthStatus{
		Status:     overall,
		UptimeSecs: int64(time.Since(h.startTime).Seconds()),
		Components: components,
	})
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: the database must be reachable
// before this server accepts traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.db.Ping(r.Context()); err != nil {
		rw.DependencyFailed("database not reachable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
