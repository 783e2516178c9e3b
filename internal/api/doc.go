// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
Package api provides the HTTP REST API layer for the digital-signage
control plane.

It exposes the Screen Registry & Push Bus, the Sync Engine, the Schedule
Evaluator, and the Context/Mood Engine as a tenant-scoped JSON API, plus
the screen-facing WebSocket upgrade those subsystems drive.

Key Components:

  - Router: HTTP route configuration and middleware stack integration
  - Handler: request handlers wired to registry.Registry, syncengine.Engine,
    schedule.Evaluator, mood.Engine, and screenbus.Hub
  - Response formatting: standardized {success, data|error} JSON envelope
  - Error handling: apperrors.Kind mapped to HTTP status via FromDomainError

API Categories:

 1. Tenant & topology (/api/clients, /api/locations, /api/screens): CRUD
    plus location-level screen assignment and push.
 2. Content (/api/playlists, /api/schedules, /api/sync-groups): playlist
    CRUD and push, schedule CRUD (wakes the evaluator), sync-group CRUD
    and transport controls (play/stop/seek/identify/screenshot/attach).
 3. Push Bus (/api/push, /api/push/widget, /api/push/alert,
    /api/push/clear, /api/reload-all): the generic envelope surface
    underlying every type-specific shorthand.
 4. Context (/api/context[/:locationId]): current Mood Vector and signals.
 5. Settings and dashboard (/api/settings, /api/dashboard/stats).
 6. Content catalogue (/api/content/:category) and video streaming
    (/video/:filename).
 7. WebSocket (/ws): the screen-facing event channel — player:register,
    player:heartbeat, player:ready, sync:ack, screenshot:response in;
    content, sync:tick, command:*, context:mood, screens:update out.

There is no authentication layer: every caller is a trusted LAN client,
per the control plane's deployment model (internal/config.SecurityConfig).
A tenant is resolved per request from X-Client-Id or ?client_id, defaulting
to the bootstrap tenant, via ResolveTenant middleware plus
registry.Registry.ResolveClientID.

See Also:

  - internal/registry: tenant/location/screen/playlist/schedule/sync-group
    persistence and the Push Bus
  - internal/syncengine: Sync Group playback transport
  - internal/schedule: time-window evaluation
  - internal/mood: signal collection and Mood Vector interpolation
  - internal/screenbus: the screen-facing WebSocket hub
  - internal/models: shared domain types
  - internal/middleware: HTTP middleware components
*/
package api
