// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import "net/http"

// dashboardStats is the payload of GET /api/dashboard/stats: a tenant-scoped
// summary of the registry's current state, plus deployment-wide totals
// straight from the database.
type dashboardStats struct {
	Locations      int   `json:"locations"`
	Screens        int   `json:"screens"`
	ScreensOnline  int   `json:"screensOnline"`
	Playlists      int   `json:"playlists"`
	Schedules      int   `json:"schedules"`
	SyncGroups     int   `json:"syncGroups"`
	TotalScreens   int64 `json:"totalScreens"`
	TotalPlaylists int64 `json:"totalPlaylists"`
}

// DashboardStats handles GET /api/dashboard/stats.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
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
	screens, err := h.registry.ListScreens(r.Context(), clientID, "", "")
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	playlists, err := h.registry.ListPlaylists(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	schedules, err := h.registry.ListSchedules(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	syncGroups, err := h.registry.ListSyncGroups(r.Context(), clientID)
	if err != nil {
		rw.FromDomainError(err)
		return
	}

	online := 0
	for _, s := range screens {
		if s.Connected {
			online++
		}
	}

	totalScreens, totalPlaylists, err := h.db.GetRecordCounts(r.Context())
	if err != nil {
		rw.FromDomainError(err)
		return
	}

	rw.Success(dashboardStats{
		Locations:      len(locations),
		Screens:        len(screens),
		ScreensOnline:  online,
		Playlists:      len(playlists),
		Schedules:      len(schedules),
		SyncGroups:     len(syncGroups),
		TotalScreens:   totalScreens,
		TotalPlaylists: totalPlaylists,
	})
}
