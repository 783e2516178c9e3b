// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/logging"
)

// DB wraps the embedded DuckDB connection backing the control plane's
// relational store: clients, locations, screens, playlists, schedules,
// sync groups, announcements and settings.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	icuAvailable  bool // timezone-aware schedule evaluation
	jsonAvailable bool // JSON column extraction for branding/capabilities/config blobs

	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// New creates a new database connection and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for the database file.
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
		}
	}

	// CRITICAL: Preload extensions BEFORE opening the main database.
	// When DuckDB opens a database file, it immediately replays the WAL. If the
	// WAL contains statements using extension functions (e.g. TIMESTAMPTZ DEFAULT
	// CURRENT_TIMESTAMP from ICU), replay fails with "GetDefaultDatabase with no
	// default database set" unless the extension is already loaded process-wide.
	if err := preloadExtensions(); err != nil {
		logging.Warn().Err(err).Msg("Failed to preload extensions, WAL replay may fail if database has pending changes")
	}

	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:          conn,
		cfg:           cfg,
		icuAvailable:  true,
		jsonAvailable: true,
		stmtCache:     make(map[string]*sql.Stmt),
	}

	if err := db.configureConnectionPool(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.enableProfiling(); err != nil {
		logging.Warn().Err(err).Msg("Query profiling not enabled")
	}

	return db, nil
}

// IsIcuAvailable returns whether the icu extension is available.
func (db *DB) IsIcuAvailable() bool {
	return db.icuAvailable
}

// IsJSONAvailable returns whether the json extension is available.
func (db *DB) IsJSONAvailable() bool {
	return db.jsonAvailable
}

// Conn returns the underlying SQL database connection, for packages that
// need direct access (e.g. metrics collectors reporting pool stats).
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// preloadExtensions loads DuckDB extensions in an in-memory database before
// opening the main database file, so they are available during WAL replay
// (DuckDB caches loaded extensions per-process).
func preloadExtensions() error {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		logging.Debug().Msg("Skipping extension preload in CI environment")
		return nil
	}

	logging.Debug().Msg("Preloading DuckDB extensions for WAL replay compatibility")

	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database for extension preload: %w", err)
	}
	defer func() {
		conn.SetConnMaxLifetime(0)
		conn.SetMaxIdleConns(0)
		conn.SetMaxOpenConns(0)
		closeQuietly(conn)
	}()

	for _, ext := range []string{"icu", "json"} {
		if !isExtensionInstalledLocally(ext) {
			logging.Debug().Str("extension", ext).Msg("Extension not installed locally, skipping preload")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := conn.ExecContext(ctx, fmt.Sprintf("LOAD %s;", ext))
		cancel()

		if err != nil {
			logging.Debug().Str("extension", ext).Err(err).Msg("Failed to preload extension")
		} else {
			logging.Debug().Str("extension", ext).Msg("Extension preloaded successfully")
		}
	}

	return nil
}

// Close closes the database connection and all prepared statements. It
// checkpoints before closing to flush the WAL, avoiding a DuckDB replay bug
// where CREATE TABLE statements using TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
// fail to replay on next startup.
func (db *DB) Close() error {
	db.stmtCacheMu.Lock()
	for _, stmt := range db.stmtCache {
		if stmt != nil {
			closeWithLog(stmt, nil, "prepared statement")
		}
	}
	db.stmtCache = make(map[string]*sql.Stmt)
	db.stmtCacheMu.Unlock()

	if db.conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()

		return db.conn.Close()
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// initialize installs required extensions, creates tables/indexes and runs
// versioned migrations.
func (db *DB) initialize() error {
	if err := db.installExtensions(); err != nil {
		return err
	}

	if err := db.createTables(); err != nil {
		return err
	}

	if err := db.runVersionedMigrations(); err != nil {
		return err
	}

	if !db.cfg.SkipIndexes {
		if err := db.createIndexes(); err != nil {
			return err
		}
	}

	// Force a checkpoint after schema initialization so the WAL doesn't carry
	// the CREATE TABLE statements into the next startup's replay path.
	checkpointCtx, checkpointCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer checkpointCancel()
	if err := db.Checkpoint(checkpointCtx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}

	return nil
}
