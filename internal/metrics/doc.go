// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and
the health of the signage control plane's subsystems.

# Overview

The package provides metrics for:
  - HTTP API request latency and throughput
  - Database query performance
  - The Mood Engine's external signal collector circuit breakers
  - The screen-facing Push Bus (connected screens, messages sent/dropped)
  - The event-bus relay (NATS publish/consume)

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type

Push Bus Metrics:
  - screenbus_connections: Currently connected screens (gauge)
  - screenbus_messages_sent_total: Messages delivered to screens (counter)
    Labels: message_type
  - screenbus_messages_dropped_total: Outbound messages dropped on a full
    per-screen queue (counter)
    Labels: screen_id

Circuit Breaker Metrics (mood engine collectors):
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_state_transitions_total: State transition counts (counter)
    Labels: name, from_state, to_state

Event Bus Metrics:
  - nats_messages_published_total: Messages published (counter)
  - nats_messages_consumed_total: Messages consumed (counter)

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/opensignage/cartograph/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    http.Handle("/metrics", promhttp.Handler())
	    metrics.RecordAPIRequest("GET", "/api/screens", "200", 23*time.Millisecond)
	}

Recording HTTP metrics with middleware (internal/middleware.PrometheusMetrics):

	func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	    return func(w http.ResponseWriter, r *http.Request) {
	        start := time.Now()
	        metrics.TrackActiveRequest(true)
	        defer metrics.TrackActiveRequest(false)

	        rw := &responseWriter{ResponseWriter: w, statusCode: 200}
	        next.ServeHTTP(rw, r)

	        metrics.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(rw.statusCode), time.Since(start))
	    }
	}

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'cartograph'
	    static_configs:
	      - targets: ['localhost:3857']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# HTTP request rate
	rate(api_requests_total[5m])

	# HTTP p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Screens currently connected
	screenbus_connections

	# Screen message drop rate
	rate(screenbus_messages_dropped_total[5m])

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent
use from multiple goroutines; the Prometheus client library handles
synchronization internally.

# Cardinality Management

To prevent high cardinality issues:
  - Endpoint labels are normalized (no query parameters)
  - Error types are truncated/limited to predefined constants
  - screenbus_messages_dropped_total is keyed by screen_id, which is bounded
    by the number of registered screens per deployment

# See Also

  - internal/middleware: wires APIRequestsTotal/APIRequestDuration into
    every request
  - internal/screenbus: wires ScreenConnections/ScreenMessagesSent/
    ScreenMessagesDropped
  - internal/mood: wires CircuitBreakerState/CircuitBreakerTransitions
  - internal/eventbus: wires NATSMessagesPublished/NATSMessagesConsumed
*/
package metrics
