// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package apperrors defines the structured error kinds returned by the
// control plane's domain packages (registry, syncengine, schedule, mood),
// so internal/api can map them to HTTP status codes and the {success,
// data|error} envelope without those packages importing net/http.
package apperrors

import "errors"

// Kind is one of the seven error kinds propagated to API callers.
type Kind string

const (
	NotFound         Kind = "NOT_FOUND"
	Conflict         Kind = "CONFLICT"
	Forbidden        Kind = "FORBIDDEN"
	InvalidInput     Kind = "INVALID_INPUT"
	EmptyPlaylist    Kind = "EMPTY_PLAYLIST"
	DependencyFailed Kind = "DEPENDENCY_FAILED"
	Internal         Kind = "INTERNAL"
)

// Error is a domain error tagged with the kind that determines how the API
// layer reports it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err, defaulting to Internal for errors that
// were not raised as an *Error (e.g. a raw driver error).
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// NotFoundf builds a NOT_FOUND error.
func NotFoundf(message string) *Error { return New(NotFound, message) }

// Conflictf builds a CONFLICT error.
func Conflictf(message string) *Error { return New(Conflict, message) }

// Forbiddenf builds a FORBIDDEN error.
func Forbiddenf(message string) *Error { return New(Forbidden, message) }

// InvalidInputf builds an INVALID_INPUT error.
func InvalidInputf(message string) *Error { return New(InvalidInput, message) }

// EmptyPlaylistf builds an EMPTY_PLAYLIST error.
func EmptyPlaylistf(message string) *Error { return New(EmptyPlaylist, message) }

// Internalf wraps cause as an INTERNAL error.
func Internalf(message string, cause error) *Error { return Wrap(Internal, message, cause) }
