// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema for the signage control plane:

  - clients: tenant root, with the undeletable bootstrap tenant "parkwise"
  - locations: physical sites belonging to a client
  - screens: self-registering signage players, one row per physical screen
  - playlists: ordered lists of content items a screen can play
  - schedules: time/day windows that bind a playlist to a screen target
  - sync_groups: screens driven together in mirror/complementary/span mode
  - announcements: location-scoped or global banner messages
  - settings: process-wide key/value configuration pairs

Every tenant-scoped table carries a client_id column referencing clients(id)
ON DELETE CASCADE, with a supporting index, so deleting a client cascades to
its locations, screens, playlists, schedules, announcements and sync groups.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			logo_url TEXT,
			branding JSON,
			contact TEXT,
			plan TEXT NOT NULL DEFAULT 'basic',
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			address TEXT,
			lat DOUBLE,
			lon DOUBLE,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			config JSON,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS sync_groups (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'mirror',
			playlist_id TEXT,
			leader_screen_id TEXT,
			config JSON,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS screens (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			group_id TEXT,
			location_id TEXT REFERENCES locations(id) ON DELETE SET NULL,
			sync_group_id TEXT REFERENCES sync_groups(id) ON DELETE SET NULL,
			type TEXT,
			status TEXT NOT NULL DEFAULT 'offline',
			last_seen BIGINT NOT NULL DEFAULT 0,
			platform TEXT,
			resolution TEXT,
			orientation TEXT,
			capabilities JSON,
			config JSON,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			items JSON NOT NULL DEFAULT '[]',
			loop BOOLEAN NOT NULL DEFAULT true,
			transition TEXT NOT NULL DEFAULT 'fade',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS schedules (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			screen_target TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			days JSON NOT NULL DEFAULT '[]',
			priority INTEGER NOT NULL DEFAULT 0,
			enabled BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS announcements (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			location_id TEXT REFERENCES locations(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			icon TEXT,
			priority TEXT NOT NULL DEFAULT 'normal',
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
}

// createIndexes creates the supporting indexes for tenant-scoped lookups.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}

func (db *DB) getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_locations_client ON locations(client_id);`,

		`CREATE INDEX IF NOT EXISTS idx_sync_groups_client ON sync_groups(client_id);`,

		`CREATE INDEX IF NOT EXISTS idx_screens_client ON screens(client_id);`,
		`CREATE INDEX IF NOT EXISTS idx_screens_location ON screens(location_id);`,
		`CREATE INDEX IF NOT EXISTS idx_screens_sync_group ON screens(sync_group_id);`,
		`CREATE INDEX IF NOT EXISTS idx_screens_group_id ON screens(group_id);`,
		`CREATE INDEX IF NOT EXISTS idx_screens_status ON screens(status);`,

		`CREATE INDEX IF NOT EXISTS idx_playlists_client ON playlists(client_id);`,

		`CREATE INDEX IF NOT EXISTS idx_schedules_client ON schedules(client_id);`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_playlist ON schedules(playlist_id);`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled);`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_priority ON schedules(priority DESC, created_at DESC);`,

		`CREATE INDEX IF NOT EXISTS idx_announcements_client ON announcements(client_id);`,
		`CREATE INDEX IF NOT EXISTS idx_announcements_location ON announcements(location_id);`,
	}
}

// CreateIndexes is exported for use by administrative tooling that rebuilds
// indexes after a bulk import.
func (db *DB) CreateIndexes() error {
	return db.createIndexes()
}
