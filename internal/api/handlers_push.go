// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// pushRequest is the body of POST /api/push: a full envelope addressed to
// target (a screen id, group id, location id, or "all").
type pushRequest struct {
	Target   string                 `json:"target" validate:"required"`
	Type     string                 `json:"type" validate:"required"`
	Content  map[string]interface{} `json:"content"`
	Level    string                 `json:"level,omitempty"`
	Duration int64                  `json:"duration,omitempty"`
}

// Push handles POST /api/push: the generic Push Bus surface underlying the
// type-specific /api/push/widget and /api/push/alert shorthands.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req pushRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	env := models.Envelope{
		Source:   "api-push",
		Type:     req.Type,
		Content:  req.Content,
		Level:    req.Level,
		Duration: req.Duration,
	}
	result, err := h.registry.Push(r.Context(), clientID, req.Target, env)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}

// pushWidgetRequest is the body of POST /api/push/widget.
type pushWidgetRequest struct {
	Target string                 `json:"target" validate:"required"`
	Widget string                 `json:"widget" validate:"required"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// PushWidget handles POST /api/push/widget: shows a named widget
// (weather/clock/rss/etc.) on target.
func (h *Handler) PushWidget(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req pushWidgetRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	env := models.Envelope{
		Source: "api-push-widget",
		Type:   models.EnvelopeTypeWidget,
		Content: map[string]interface{}{
			"widget": req.Widget,
			"config": req.Config,
		},
	}
	result, err := h.registry.Push(r.Context(), clientID, req.Target, env)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}

// pushAlertRequest is the body of POST /api/push/alert.
type pushAlertRequest struct {
	Target   string `json:"target" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Level    string `json:"level,omitempty" validate:"omitempty,oneof=info warn error"`
	Duration int64  `json:"duration,omitempty"`
}

// PushAlert handles POST /api/push/alert: a banner message, auto-dismissed
// client-side after Duration milliseconds when positive.
func (h *Handler) PushAlert(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req pushAlertRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	level := req.Level
	if level == "" {
		level = models.AlertLevelInfo
	}
	env := models.Envelope{
		Source:   "api-push-alert",
		Type:     models.EnvelopeTypeAlert,
		Content:  map[string]interface{}{"message": req.Message},
		Level:    level,
		Duration: req.Duration,
	}
	result, err := h.registry.Push(r.Context(), clientID, req.Target, env)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}

// targetRequest is the body of POST /api/push/clear.
type targetRequest struct {
	Target string `json:"target" validate:"required"`
}

// PushClear handles POST /api/push/clear: tells target to blank its display.
func (h *Handler) PushClear(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	var req targetRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.InvalidInput(err.Error())
		return
	}
	result, err := h.registry.Clear(r.Context(), clientID, req.Target)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}

// ReloadAll handles POST /api/reload-all: a command:reload frame to every
// connected screen for the tenant.
func (h *Handler) ReloadAll(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	clientID, err := h.resolveClient(r)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	result, err := h.registry.Reload(r.Context(), clientID, models.ScreenTargetAll)
	if err != nil {
		rw.FromDomainError(err)
		return
	}
	rw.Success(result)
}
