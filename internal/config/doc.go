// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package config loads and validates the control plane's configuration.
//
// # Layering
//
// LoadWithKoanf builds the Config struct from three layers, in increasing
// priority:
//
//  1. defaultConfig(): built-in defaults (see koanf.go)
//  2. An optional YAML file, located via CONFIG_PATH or DefaultConfigPaths
//  3. Environment variables, mapped to koanf paths by envTransformFunc
//
// Config.Validate is run after unmarshaling and returns the first
// inconsistency found (bad port range, NATS enabled without a URL, an
// offline threshold shorter than the heartbeat interval it must tolerate,
// and so on).
//
// # Sections
//
//   - DatabaseConfig: embedded DuckDB file path and pragmas
//   - NATSConfig: embedded JetStream event bus and Watermill router tuning
//   - ServerConfig / APIConfig: HTTP listener and envelope pagination
//   - SecurityConfig: CORS, trusted proxies and rate limiting. There is no
//     authentication layer; every caller is a trusted LAN client.
//   - RegistryConfig: heartbeat and offline-transition timing for the
//     Screen Registry
//   - ScheduleConfig: the Schedule Evaluator's tick and mutation debounce
//   - MoodConfig: Context/Mood Engine collector cadences and broadcast rate
//   - ScreenbusConfig: bounded per-screen outbound queue sizing
package config
