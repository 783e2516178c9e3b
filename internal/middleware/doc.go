// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression, performance
monitoring, request ID tracking, and Prometheus metrics integration. The CORS
and rate-limit layers are not in this package; internal/api combines these
components with its own ChiMiddleware to build the request stack.

Key Components:

  - Compression: Gzip compression for every response when the client accepts gzip
  - Performance Monitor: Request latency tracking with percentile calculations
  - Request ID: UUID-based request tracking for distributed tracing
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The stack that internal/api builds for an endpoint is, outermost first:

	chiMiddleware.CORS()(                      // Layer 1: CORS headers (internal/api)
	    chiMiddleware.RateLimit()(             // Layer 2: Rate limiting (internal/api)
	        middleware.RequestID(              // Layer 3: Request tracking
	            middleware.Compression(        // Layer 4: Gzip
	                middleware.PrometheusMetrics( // Layer 5: Metrics
	                    handler,               // Layer 6: Business logic
	                ),
	            ),
	        ),
	    ),
	)

Usage Example - Compression:

	import "github.com/opensignage/cartograph/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/data",
	    middleware.Compression(handler),
	)

	// Every response is compressed, whatever its size,
	// when the request carries Accept-Encoding: gzip

Usage Example - Performance Monitoring:

	// Create performance monitor keeping the 1000 most recent requests
	perfMon := middleware.NewPerformanceMonitor(1000)

	// Wrap handler
	http.Handle("/api/v1/stats",
	    perfMon.Middleware(handler),
	)

	// Get per-endpoint statistics (durations in milliseconds)
	for _, s := range perfMon.GetStats() {
	    fmt.Printf("%s p50: %d, p95: %d, p99: %d\n",
	        s.Path, s.P50Duration, s.P95Duration, s.P99Duration)
	}

Usage Example - Request ID:

	// Request ID middleware
	http.HandleFunc("/api/v1/logs",
	    middleware.RequestID(handler),
	)

	// Access request ID in handler
	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := r.Context().Value(middleware.RequestIDKey).(string)
	    log.Printf("[%s] Processing request", requestID)
	}

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request
  - Request ID overhead: <0.01ms (UUID generation)
  - Performance monitor: slice of recent samples guarded by sync.RWMutex

Compression Details:

The compression middleware:
  - Compresses every response, whatever its size (there is no threshold)
  - Supports gzip encoding only (Accept-Encoding: gzip)
  - Does not filter by content type
  - Passes requests with Upgrade: websocket through uncompressed
  - Sets the Content-Encoding header
  - Does not implement http.Flusher; output is flushed when the handler returns

Performance Monitor:

The performance monitor tracks:
  - Request count per endpoint
  - Latency percentiles (p50, p95, p99)
  - Rolling window of the maxMetrics most recent requests
  - Thread-safe concurrent access with RWMutex

Thread Safety:

All middleware components are thread-safe:
  - Compression uses per-request gzip writers
  - Performance monitor uses sync.RWMutex
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: CORS and rate-limit middleware (ChiMiddleware)
  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
