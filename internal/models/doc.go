// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package models defines the control plane's persisted and runtime-only
// types: Client, Location, Screen, Playlist, Schedule, SyncGroup,
// Announcement and Setting (all backed by internal/database's schema), plus
// the screen-facing Envelope and MoodVector types shared by internal/
// registry, internal/syncengine, internal/schedule and internal/mood.
//
// db struct tags name the DuckDB column a field round-trips through; JSON
// sub-documents (branding, config, capabilities, items) are decoded through
// internal/registry's scan helpers rather than database/sql directly, since
// database/sql has no native JSON column type.
package models
