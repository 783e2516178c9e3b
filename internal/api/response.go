// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package api provides standardized API response handling.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/logging"
)

// APIResponse is the `{success, data|error}` envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is one of the seven error kinds (see errors.go).
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta contains optional response metadata.
type APIMeta struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta contains pagination information for list responses.
type PaginationMeta struct {
	Total   int64 `json:"total,omitempty"`
	Count   int   `json:"count"`
	Offset  int   `json:"offset,omitempty"`
	Limit   int   `json:"limit,omitempty"`
	HasMore bool  `json:"has_more"`
}

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Success writes a successful response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.SuccessWithMeta(data, nil)
}

// SuccessWithMeta writes a successful response with data and metadata.
func (rw *ResponseWriter) SuccessWithMeta(data interface{}, meta *APIMeta) {
	if meta == nil {
		meta = &APIMeta{}
	}
	meta.Timestamp = time.Now()
	meta.DurationMs = time.Since(rw.startTime).Milliseconds()
	meta.RequestID = logging.RequestIDFromContext(rw.r.Context())

	rw.writeJSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: meta})
}

// SuccessWithPagination writes a successful paginated response.
func (rw *ResponseWriter) SuccessWithPagination(data interface{}, pagination *PaginationMeta) {
	rw.SuccessWithMeta(data, &APIMeta{Pagination: pagination})
}

// Created writes a 201 Created response.
func (rw *ResponseWriter) Created(data interface{}) {
	meta := &APIMeta{
		Timestamp:  time.Now(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
	}
	rw.writeJSON(http.StatusCreated, APIResponse{Success: true, Data: data, Meta: meta})
}

// NoContent writes a 204 No Content response.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status code and kind.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(rw.r.Context())

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &APIMeta{
			Timestamp:  time.Now(),
			DurationMs: time.Since(rw.startTime).Milliseconds(),
			RequestID:  requestID,
		},
	}

	rw.writeJSON(statusCode, response)
}

// NotFound writes a 404 error with kind NOT_FOUND: entity id unknown.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// Conflict writes a 409 error with kind CONFLICT: duplicate unique constraint.
func (rw *ResponseWriter) Conflict(message string) {
	rw.Error(http.StatusConflict, ErrCodeConflict, message)
}

// Forbidden writes a 403 error with kind FORBIDDEN: protected resource.
func (rw *ResponseWriter) Forbidden(message string) {
	rw.Error(http.StatusForbidden, ErrCodeForbidden, message)
}

// InvalidInput writes a 400 error with kind INVALID_INPUT: missing/mis-typed
// field, empty playlist on play, start>end time.
func (rw *ResponseWriter) InvalidInput(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeInvalidInput, message)
}

// InvalidInputWithDetails writes a 400 INVALID_INPUT error with field-level details.
func (rw *ResponseWriter) InvalidInputWithDetails(message string, details interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeInvalidInput, message, details)
}

// EmptyPlaylist writes a 400 error with kind EMPTY_PLAYLIST: play on a
// playlist with no items.
func (rw *ResponseWriter) EmptyPlaylist(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeEmptyPlaylist, message)
}

// DependencyFailed writes a 502 error with kind DEPENDENCY_FAILED. This is
// never used for collector/push failures, which are swallowed and logged
// instead of propagated to HTTP callers.
func (rw *ResponseWriter) DependencyFailed(message string) {
	rw.Error(http.StatusBadGateway, ErrCodeDependencyFailed, message)
}

// Internal writes a 500 error with kind INTERNAL for an unexpected
// persistence or runtime failure.
func (rw *ResponseWriter) Internal(err error) {
	logging.Error().Err(err).Msg("internal error")
	rw.Error(http.StatusInternalServerError, ErrCodeInternal, "an internal error occurred")
}

// FromDomainError writes the appropriate HTTP response for a domain error
// returned by internal/registry, internal/syncengine, internal/schedule or
// internal/mood, mapping its apperrors.Kind to a status code.
func (rw *ResponseWriter) FromDomainError(err error) {
	switch apperrors.KindOf(err) {
	case apperrors.NotFound:
		rw.NotFound(err.Error())
	case apperrors.Conflict:
		rw.Conflict(err.Error())
	case apperrors.Forbidden:
		rw.Forbidden(err.Error())
	case apperrors.InvalidInput:
		rw.InvalidInput(err.Error())
	case apperrors.EmptyPlaylist:
		rw.EmptyPlaylist(err.Error())
	case apperrors.DependencyFailed:
		rw.DependencyFailed(err.Error())
	default:
		rw.Internal(err)
	}
}

// TooManyRequests writes a 429 Too Many Requests error.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, message)
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience function for writing success responses.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	NewResponseWriter(w, r).Success(data)
}

// WriteNotFound is a convenience function for NOT_FOUND errors.
func WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	NewResponseWriter(w, r).NotFound(message)
}

// WriteInternal is a convenience function for INTERNAL errors.
func WriteInternal(w http.ResponseWriter, r *http.Request, err error) {
	NewResponseWriter(w, r).Internal(err)
}
