// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
database_extensions.go - DuckDB Extension Installation

This file handles the installation and loading of the DuckDB extensions
this server depends on:

  - httpfs: enables HTTPS downloads for extension installation
  - icu: timezone-aware timestamp operations, needed for per-location IANA
    timezone handling in the schedule evaluator
  - json: JSON path extraction over the branding/capabilities/config/items
    blob columns

Installation Strategy:
Each extension follows a fallback installation pattern:
 1. Try INSTALL <extension>
 2. If install fails, try LOAD <extension> (may already be installed)
 3. If load fails, try FORCE INSTALL <extension>
 4. If optional=true and all fail, disable the feature gracefully

Environment Variables:
  - DUCKDB_EXTENSIONS_OPTIONAL=true: allow startup without these extensions (testing only)
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/opensignage/cartograph/internal/logging"
)

// communityExtensionTimeout is the hard timeout for extension operations.
// CGO calls don't respect context cancellation, so we need goroutine-based
// timeouts. Overridable via DUCKDB_EXTENSION_TIMEOUT (e.g. "30s", "1m").
var communityExtensionTimeout = getExtensionTimeout()

type extensionRetryConfig struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	BackoffMult float64
}

var defaultRetryConfig = extensionRetryConfig{
	MaxRetries:  3,
	BaseDelay:   2 * time.Second,
	MaxDelay:    30 * time.Second,
	BackoffMult: 2.0,
}

func getExtensionTimeout() time.Duration {
	if timeoutStr := os.Getenv("DUCKDB_EXTENSION_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			return d
		}
	}
	return 30 * time.Second
}

// duckdbVersion is the DuckDB version used for extension paths. Keep in
// sync with the duckdb-go-bindings version in go.mod.
const duckdbVersion = "v1.4.3"

// isExtensionInstalledLocally checks if an extension file exists in the
// local DuckDB extension directory, to skip network INSTALL commands when
// extensions are pre-installed (e.g. baked into the deployment image).
func isExtensionInstalledLocally(extensionName string) bool {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return false
	}

	platform := runtime.GOOS + "_" + runtime.GOARCH
	extPath := filepath.Join(homeDir, ".duckdb", "extensions", duckdbVersion, platform, extensionName+".duckdb_extension")

	_, err = os.Stat(extPath)
	return err == nil
}

type execResult struct {
	err error
}

type queryResult struct {
	value interface{}
	err   error
}

// execWithHardTimeout executes a SQL statement with a goroutine-based hard
// timeout, since DuckDB CGO calls don't respect context cancellation.
func (db *DB) execWithHardTimeout(query string) error {
	resultCh := make(chan execResult, 1)

	ctx, cancel := extensionContext()
	defer cancel()

	go func() {
		_, err := db.conn.ExecContext(ctx, query)
		resultCh <- execResult{err: err}
	}()

	select {
	case result := <-resultCh:
		return result.err
	case <-time.After(communityExtensionTimeout):
		return fmt.Errorf("operation timed out after %v", communityExtensionTimeout)
	}
}

// queryRowWithHardTimeout executes a query and scans a single value with a
// hard timeout.
func (db *DB) queryRowWithHardTimeout(query string) (interface{}, error) {
	resultCh := make(chan queryResult, 1)

	ctx, cancel := extensionContext()
	defer cancel()

	go func() {
		var result interface{}
		err := db.conn.QueryRowContext(ctx, query).Scan(&result)
		resultCh <- queryResult{value: result, err: err}
	}()

	select {
	case result := <-resultCh:
		return result.value, result.err
	case <-time.After(communityExtensionTimeout):
		return nil, fmt.Errorf("query timed out after %v", communityExtensionTimeout)
	}
}

// execWithRetry executes a SQL statement with retry logic and exponential
// backoff, to absorb transient network failures when downloading extensions.
func (db *DB) execWithRetry(query string, config extensionRetryConfig) error {
	var lastErr error
	delay := config.BaseDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Str("query", query).
				Msg("Retrying extension operation")
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * config.BackoffMult)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		err := db.execWithHardTimeout(query)
		if err == nil {
			return nil
		}
		lastErr = err

		errStr := err.Error()
		isRetryable := strings.Contains(errStr, "timed out") ||
			strings.Contains(errStr, "timeout") ||
			strings.Contains(errStr, "connection refused") ||
			strings.Contains(errStr, "503") ||
			strings.Contains(errStr, "temporary failure")

		if !isRetryable {
			return err
		}

		logging.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", config.MaxRetries+1).
			Msg("Extension operation failed, will retry")
	}

	return fmt.Errorf("extension operation failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}

type extensionInstaller func(optional bool) error

func installExtension(installer extensionInstaller, optional bool) error {
	if err := installer(optional); err != nil && !optional {
		return err
	}
	return nil
}

// installExtensions installs and loads the icu and json extensions this
// server depends on. Returns an error if a required extension fails to load
// unless DUCKDB_EXTENSIONS_OPTIONAL=true.
func (db *DB) installExtensions() error {
	optional := os.Getenv("DUCKDB_EXTENSIONS_OPTIONAL") == "true"

	if err := db.configureExtensionRepository(); err != nil {
		logging.Warn().Err(err).Msg("Failed to set custom extension repository, will use default")
	}

	if err := db.installHttpfs(); err != nil {
		logging.Warn().Err(err).Msg("Failed to install/load httpfs extension")
	}

	coreExtensions := []extensionInstaller{
		db.installICU,
		db.installJSON,
	}
	for _, installer := range coreExtensions {
		if err := installExtension(installer, optional); err != nil {
			return err
		}
	}

	return nil
}

func (db *DB) configureExtensionRepository() error {
	return db.execWithHardTimeout("SET custom_extension_repository = 'https://extensions.duckdb.org';")
}

func (db *DB) installHttpfs() error {
	if isExtensionInstalledLocally("httpfs") {
		logging.Debug().Msg("httpfs extension found locally")
	}

	if err := db.execWithRetry("INSTALL httpfs;", defaultRetryConfig); err != nil {
		if loadErr := db.execWithHardTimeout("LOAD httpfs;"); loadErr != nil {
			return fmt.Errorf("httpfs install error: %w, load error: %w", err, loadErr)
		}
		return nil
	}
	return db.execWithHardTimeout("LOAD httpfs;")
}

// installICU installs the ICU extension for timezone support.
func (db *DB) installICU(optional bool) error {
	spec := &extensionSpec{
		Name:              "icu",
		VerifyQuery:       "SELECT timezone('America/New_York', TIMESTAMP '2024-01-01 12:00:00')::VARCHAR",
		AvailabilityField: func(db *DB) *bool { return &db.icuAvailable },
		WarningMessage:    "ICU extension unavailable, schedule timezone handling will be limited",
	}
	return db.installCoreExtension(spec, optional)
}

// installJSON installs the JSON extension used by the branding/capabilities/
// config/items blob columns.
func (db *DB) installJSON(optional bool) error {
	spec := &extensionSpec{
		Name:              "json",
		VerifyQuery:       "SELECT json_extract('{\"name\":\"test\"}', '$.name')::VARCHAR",
		AvailabilityField: func(db *DB) *bool { return &db.jsonAvailable },
		WarningMessage:    "JSON extension unavailable, JSON column operations will be limited",
	}
	return db.installCoreExtension(spec, optional)
}
