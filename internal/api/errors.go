// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

// Error kinds returned to callers. These are the seven kinds every API
// handler maps a failure onto: NOT_FOUND (entity id unknown), CONFLICT
// (duplicate unique constraint, e.g. client slug), FORBIDDEN (protected
// resource, e.g. deleting the parkwise tenant), INVALID_INPUT (missing/
// mis-typed field, empty playlist on play, start>end time), EMPTY_PLAYLIST
// (play on a playlist with no items), DEPENDENCY_FAILED (external signal
// endpoint unreachable — logged, never propagated to HTTP callers in
// practice, kept for callers that do need to surface it), and INTERNAL
// (unexpected persistence or runtime failure).
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeEmptyPlaylist    = "EMPTY_PLAYLIST"
	ErrCodeDependencyFailed = "DEPENDENCY_FAILED"
	ErrCodeInternal         = "INTERNAL"

	// ErrCodeTooManyRequests is not one of the seven error kinds; it is
	// surfaced by the rate-limiting middleware before a handler ever runs.
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
)
