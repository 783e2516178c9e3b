// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import "net/http"

// ListSettings handles GET /api/settings. Settings are process-wide, not
// tenant-scoped: there is a single offline threshold, alert auto-expiry,
// and default transition for the whole deployment.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	settings, err := h.registry.ListSettings(r.Context())
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(settings)
}

// putSettingRequest is the body of PUT /api/settings/:key.
type putSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// PutSetting handles PUT /api/settings/:key.
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req putSettingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	setting, err := h.registry.PutSetting(r.Context(), urlParam(r, "key"), req.Value)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	h.audit.LogSettingChanged("", urlParam(r, "key"), req.Value, r.RemoteAddr)
	rw.Success(setting)
}
