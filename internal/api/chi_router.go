// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package api provides HTTP routing using Chi router (ADR-0016).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opensignage/cartograph/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures the full route table: tenant CRUD, the Push Bus,
// the Sync Engine, the Schedule Evaluator, the Context/Mood Engine,
// settings, the dashboard, the content catalogue, and the screen-facing
// WebSocket.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(E2EDebugLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Screen-facing WebSocket
	// ========================
	// No rate limiting: screens hold one long-lived connection each, not a
	// request burst. Tenant scoping happens after player:register, not here.
	r.Get("/ws", router.handler.ServeScreenSocket)

	// ========================
	// Tenant-scoped control-plane API
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(ResolveTenant)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", router.handler.ListClients)
			r.Post("/", router.handler.CreateClient)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetClient)
				r.Put("/", router.handler.UpdateClient)
				r.Delete("/", router.handler.DeleteClient)
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", router.handler.ListLocations)
			r.Post("/", router.handler.CreateLocation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetLocation)
				r.Put("/", router.handler.UpdateLocation)
				r.Delete("/", router.handler.DeleteLocation)
				r.Post("/screens", router.handler.AssignScreensToLocation)
				r.Post("/push", router.handler.PushToLocation)
			})
		})

		r.Route("/screens", func(r chi.Router) {
			r.Get("/", router.handler.ListScreens)
			r.Post("/", router.handler.CreateScreen)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetScreen)
				r.Put("/", router.handler.UpdateScreen)
				r.Delete("/", router.handler.DeleteScreen)
				r.Post("/mode", router.handler.ForceScreenMode)
			})
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", router.handler.ListPlaylists)
			r.Post("/", router.handler.CreatePlaylist)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetPlaylist)
				r.Put("/", router.handler.UpdatePlaylist)
				r.Delete("/", router.handler.DeletePlaylist)
				r.Post("/push", router.handler.PushPlaylist)
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", router.handler.ListSchedules)
			r.Post("/", router.handler.CreateSchedule)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetSchedule)
				r.Put("/", router.handler.UpdateSchedule)
				r.Delete("/", router.handler.DeleteSchedule)
			})
		})

		r.Route("/sync-groups", func(r chi.Router) {
			r.Get("/", router.handler.ListSyncGroups)
			r.Post("/", router.handler.CreateSyncGroup)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetSyncGroup)
				r.Put("/", router.handler.UpdateSyncGroup)
				r.Delete("/", router.handler.DeleteSyncGroup)
				r.Post("/play", router.handler.PlaySyncGroup)
				r.Post("/stop", router.handler.StopSyncGroup)
				r.Post("/seek", router.handler.SeekSyncGroup)
				r.Post("/identify", router.handler.IdentifySyncGroup)
				r.Post("/screenshot", router.handler.ScreenshotSyncGroup)
				r.Post("/screens", router.handler.AttachScreensToSyncGroup)
			})
		})

		r.Post("/push", router.handler.Push)
		r.Post("/push/widget", router.handler.PushWidget)
		r.Post("/push/alert", router.handler.PushAlert)
		r.Post("/push/clear", router.handler.PushClear)
		r.Post("/reload-all", router.handler.ReloadAll)

		r.Get("/context", router.handler.GetContext)
		r.Get("/context/{locationId}", router.handler.GetContext)

		r.Get("/settings", router.handler.ListSettings)
		r.Put("/settings/{key}", router.handler.PutSetting)

		r.Get("/dashboard/stats", router.handler.DashboardStats)

		r.Get("/content/{category}", router.handler.ListContent)
	})

	// ========================
	// Video Streaming
	// ========================
	// Outside /api: a plain file stream, not a JSON envelope response.
	r.Route("/video", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitExport())
		r.Get("/{filename}", router.handler.ServeVideo)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
