// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
Package services provides suture.Service wrappers for the signage control
plane's domain components.

This package adapts the registry, sync engine, schedule evaluator, mood
engine, screen-facing WebSocket hub, event-bus relay, and HTTP server to
the suture v4 supervision model, translating each component's own
lifecycle pattern (Start/Stop or ListenAndServe/Shutdown) into suture's
context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

ManagedService wraps any StartStopper:

	type StartStopper interface {
	    Start(ctx context.Context) error
	    Stop() error
	}

registry.Registry, syncengine.Engine, schedule.Evaluator, mood.Engine,
and eventbus.Relay all satisfy StartStopper and can be supervised with
one NewManagedService("name", component) call each.

WebSocketHubService wraps the screen-facing Push Bus hub:

	type ContextHub interface {
	    RunWithContext(ctx context.Context) error
	}

screenbus.Hub satisfies ContextHub; its registration/unregistration loop
runs until the context is canceled. Connections are accepted by
screenbus.Upgrade in the HTTP handler, not by this loop.

HTTPServerService wraps the control plane's HTTP server:

	type HTTPServer interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

*http.Server satisfies HTTPServer. NewHTTPServerService takes a
shutdown timeout used to bound the drain period on context cancellation.

# Usage Example

Creating and registering services:

	import (
	    "time"

	    "github.com/opensignage/cartograph/internal/supervisor"
	    "github.com/opensignage/cartograph/internal/supervisor/services"
	)

	func setupSupervisor(httpServer *http.Server, bus *screenbus.Hub, reg *registry.Registry) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))
	    tree.AddMessagingService(services.NewWebSocketHubService(bus))
	    tree.AddDataService(services.NewManagedService("screen-registry", reg))

	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer for logging, so suture's event hook
can name the service in every start/stop/restart log line.

# Thread Safety

All service wrappers are safe for concurrent use:
  - State is protected by mutexes where needed
  - Context cancellation is handled atomically
  - Multiple Serve calls on the same wrapper are not supported

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: underlying supervision library
  - internal/registry, internal/syncengine, internal/schedule,
    internal/mood, internal/screenbus, internal/eventbus: the wrapped
    domain components
*/
package services
