// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package registry implements the Screen Registry & Push Bus: the
// tenant-scoped catalogue CRUD for clients, locations, screens,
// playlists, schedules, sync groups, announcements and settings, plus the
// Connected-Screen Map (backed by internal/screenbus's Hub), target
// resolution, and the public push/forceMode/reload/clear/identify/
// captureScreenshot operations every other subsystem (internal/syncengine,
// internal/schedule, internal/mood) dispatches through.
//
// Registry is the single owner of *database.DB and *screenbus.Hub; it
// implements screenbus.InboundHandler so player:register/heartbeat/ready/
// sync:ack/screenshot:response frames land here without screenbus needing
// to import this package.
package registry
