// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
Package main is the entry point for the Cartograph signage control-plane
server.

Cartograph is a multi-tenant digital-signage control plane. It registers
screens over a WebSocket Push Bus, evaluates Schedules into the active
playlist for each Screen, pushes content changes to connected screens in
real time, keeps Sync Groups playing in lockstep, and derives a per-location
Mood Vector from ambient signals (weather, occupancy, security, audio,
people-count, time-of-day) that screens use to adapt presentation.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("cartograph")
	├── DataSupervisor ("data-layer")
	│   └── Screen Registry (offline-scan loop)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Sync Engine (Sync Group playback transport)
	│   ├── Schedule Evaluator (time-window -> active playlist)
	│   ├── Mood Engine (signal collection, Mood Vector broadcast)
	│   ├── Screen-facing WebSocket Hub (Push Bus)
	│   ├── Event bus (only when NATS is enabled)
	│   └── Event-bus Relay (idle unless NATS is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (tenant-scoped REST API)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB-backed persistence for tenants, locations, screens,
    playlists, schedules, sync groups, and settings
 4. Screen Registry: screen/location/playlist/schedule/sync-group state
    and the Push Bus it drives
 5. Sync Engine, Schedule Evaluator, Mood Engine: the three domain loops
    layered on top of the registry and the Push Bus
 6. Event bus: optional NATS JetStream relay fanning external events into
    the Push Bus
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=3857              # HTTP server port
	HTTP_HOST=0.0.0.0
	LOG_LEVEL=info             # trace, debug, info, warn, error
	LOG_FORMAT=json            # json or console

	# Database
	DUCKDB_PATH=./data/cartograph.duckdb

	# Registry / Schedule / Mood tuning
	OFFLINE_THRESHOLD=90s
	OFFLINE_SCAN_INTERVAL=30s
	SCHEDULE_EVALUATION_INTERVAL=30s
	MOOD_BROADCAST_INTERVAL=60s

	# Event bus (optional)
	NATS_ENABLED=false
	NATS_URL=nats://localhost:4222

The complete environment-variable mapping is envTransformFunc in
internal/config/koanf.go.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Closes every connected screen's Push Bus connection (a websocket
    close frame; no message is sent first)
 3. Waits for in-flight requests (shutdown timeout)
 4. Stops the Sync Engine, Schedule Evaluator, and Mood Engine
 5. Stops the event-bus relay and closes the database
 6. Reports any services that failed to stop within the shutdown timeout

# Usage Examples

Development:

	export LOG_LEVEL=debug LOG_FORMAT=console
	go run ./cmd/server

Docker:

	docker run -d \
	  -e DUCKDB_PATH=/data/cartograph.duckdb \
	  -e HTTP_PORT=3857 \
	  -p 3857:3857 \
	  ghcr.io/opensignage/cartograph

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/registry: Screen Registry and Push Bus
  - internal/syncengine: Sync Group playback transport
  - internal/schedule: Schedule evaluation
  - internal/mood: Context/Mood Engine
  - internal/eventbus: NATS event relay
*/
package main
