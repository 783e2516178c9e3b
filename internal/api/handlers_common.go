// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/opensignage/cartograph/internal/validation"
)

// resolveClient resolves the tenant a request is scoped to: the raw
// reference set by ResolveTenant (X-Client-Id header or client_id query
// param), looked up by registry.ResolveClientID, which defaults an empty
// reference to the parkwise bootstrap tenant.
func (h *Handler) resolveClient(r *http.Request) (string, error) {
	ref := ClientRefFromContext(r.Context())
	clientID, err := h.registry.ResolveClientID(r.Context(), ref)
	if err != nil {
		h.audit.LogClientResolveFailed(ref, r.RemoteAddr, err.Error())
	}
	return clientID, err
}

// decodeAndValidate decodes the request body JSON into dst and runs struct
// validation tags over it via internal/validation, returning an
// INVALID_INPUT error on either failure so handlers have one call site for
// request-body parsing.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	defer func() { _ = r.Body.Close() }()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidJSON(err)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return errInvalidJSON(verr)
	}
	return nil
}

func errInvalidJSON(err error) error {
	return &invalidRequestError{err: err}
}

type invalidRequestError struct{ err error }

func (e *invalidRequestError) Error() string { return e.err.Error() }

// urlParam is a thin alias over chi.URLParam, kept as its own call site so
// the handler files read uniformly regardless of which router mounted them.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
