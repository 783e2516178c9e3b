// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/middleware"
)

// Router wires the Handler to a Chi mux through the production-hardened
// middleware stack (ADR-0016): CORS and rate limiting from ChiMiddleware,
// compression/request-id/Prometheus from internal/middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a new router with all routes configured.
func NewRouter(handler *Handler, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
	}
}

// wrap applies the standard middleware stack (CORS, RateLimit, RequestID,
// Compression, Prometheus, outermost first) to a plain http.HandlerFunc, for
// a handler served outside SetupChi's Chi tree. SetupChi itself does not call it.
func (router *Router) wrap(handler http.HandlerFunc) http.Handler {
	return router.chiMiddleware.CORS()(
		router.chiMiddleware.RateLimit()(
			middleware.RequestID(
				middleware.Compression(
					middleware.PrometheusMetrics(handler),
				),
			),
		),
	)
}
