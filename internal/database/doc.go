// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package database provides the embedded relational store for the signage
// control plane.
//
// # Overview
//
// This package owns the connection to an embedded DuckDB file and the
// schema backing the control plane's tenant-scoped entities: clients,
// locations, screens, playlists, schedules, sync groups, announcements and
// settings. It is a thin lifecycle and schema layer; row-level CRUD lives in
// internal/registry, which builds on the *sql.DB exposed by Conn().
//
// # Architecture
//
//   - database.go: connection lifecycle (open, initialize, checkpoint, close)
//   - database_schema.go: table creation and index management
//   - database_extensions.go / database_extensions_core.go: DuckDB extension
//     installation (icu for timezone-aware schedule evaluation, json for the
//     branding/capabilities/config/items blob columns)
//   - database_connection.go: connection pool configuration and error
//     classification
//   - database_utils.go: profiling, context helpers, checkpoint/backup support
//   - migrations.go: versioned schema migration infrastructure
//   - query_builder.go: small parameterized-query helpers shared by registry CRUD
//
// # Database Technology
//
// DuckDB is embedded via CGO (github.com/duckdb/duckdb-go/v2) rather than
// run as a separate server: the control plane is a single-process deployment
// and DuckDB's single-file storage plus WAL gives it durability without an
// external dependency.
//
// # Concurrency
//
// The underlying *sql.DB connection pool is safe for concurrent use.
// Extension installation and schema creation happen once during New, before
// the pool is handed to callers.
package database
