// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package config provides configuration management for the signage control
// plane: a layered Koanf load (defaults, optional YAML file, environment
// variables) into a single typed Config struct.
package config

import "time"

// Config is the root configuration for the control plane server.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	NATS      NATSConfig      `koanf:"nats"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Registry  RegistryConfig  `koanf:"registry"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	Mood      MoodConfig      `koanf:"mood"`
	Screenbus ScreenbusConfig `koanf:"screenbus"`
	Content   ContentConfig   `koanf:"content"`
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	// Path is the DuckDB file path, or ":memory:" for an in-memory database.
	Path string `koanf:"path"`
	// MaxMemory is DuckDB's memory_limit pragma value (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`
	// Threads is DuckDB's worker thread count; 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
	// PreserveInsertionOrder mirrors DuckDB's preserve_insertion_order pragma.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
	// SeedMockData is loaded from configuration but is not read by the
	// database layer or any other package; no tenant or fixtures are seeded
	// from it.
	SeedMockData bool `koanf:"seed_mock_data"`
	// SkipIndexes skips index creation, for bulk-import scenarios that build
	// their own indexes afterward.
	SkipIndexes bool `koanf:"skip_indexes"`
}

// NATSConfig configures the embedded NATS JetStream event bus used to
// fan out registry changes, sync ticks and mood frames across processes.
type NATSConfig struct {
	Enabled          bool   `koanf:"enabled"`
	URL              string `koanf:"url"`
	EmbeddedServer   bool   `koanf:"embedded_server"`
	StoreDir         string `koanf:"store_dir"`
	MaxMemory        int64  `koanf:"max_memory"`
	MaxStore         int64  `koanf:"max_store"`
	RetentionDays    int    `koanf:"retention_days"`
	SubscribersCount int    `koanf:"subscribers_count"`
	DurableName      string `koanf:"durable_name"`
	QueueGroup       string `koanf:"queue_group"`

	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterThrottlePerSecond    int           `koanf:"router_throttle_per_second"`
	RouterPoisonQueueEnabled   bool          `koanf:"router_poison_queue_enabled"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig configures the API envelope's pagination defaults.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig configures the ambient HTTP hardening applied to every
// request: CORS, trusted proxy parsing for client IP extraction, and rate
// limiting. There is no authentication layer: every caller is a trusted LAN
// client (screens, admin UI, sync partners), per the control plane's
// deployment model.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures the zerolog writer.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RegistryConfig configures the Screen Registry & Push Bus.
type RegistryConfig struct {
	// HeartbeatInterval is the expected period between player:heartbeat
	// messages from a connected screen.
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`
	// OfflineThreshold is how long a screen may go without a heartbeat
	// before the registry scan marks it offline and drops it from the
	// Connected-Screen Map. Overridable per-deployment via the settings
	// table; this is the fallback when no setting row exists.
	OfflineThreshold time.Duration `koanf:"offline_threshold"`
	// OfflineScanInterval is how often the registry scans for missed
	// heartbeats.
	OfflineScanInterval time.Duration `koanf:"offline_scan_interval"`
}

// ScheduleConfig configures the Schedule Evaluator's cadence.
type ScheduleConfig struct {
	// EvaluationInterval is the fixed wall-clock tick the evaluator runs on.
	EvaluationInterval time.Duration `koanf:"evaluation_interval"`
	// MutationDebounce is how soon after a schedule mutation the evaluator
	// re-runs, independent of the fixed tick.
	MutationDebounce time.Duration `koanf:"mutation_debounce"`
}

// MoodConfig configures the Context/Mood Engine's collector cadences and
// broadcast interval.
type MoodConfig struct {
	// WeatherAPIURL is the base URL of the weather collector's HTTP source.
	// Left empty, the weather collector runs in stale-reading-only mode.
	WeatherAPIURL string `koanf:"weather_api_url"`
	// OccupancyAPIURL and SecurityAPIURL are the HTTP sources for those
	// pollers; left empty, each collector keeps its last known reading (or
	// the zero reading, before a first success).
	OccupancyAPIURL       string        `koanf:"occupancy_api_url"`
	SecurityAPIURL        string        `koanf:"security_api_url"`
	WeatherPollInterval   time.Duration `koanf:"weather_poll_interval"`
	OccupancyPollInterval time.Duration `koanf:"occupancy_poll_interval"`
	SecurityPollInterval  time.Duration `koanf:"security_poll_interval"`
	CollectorHTTPTimeout  time.Duration `koanf:"collector_http_timeout"`
	BroadcastInterval     time.Duration `koanf:"broadcast_interval"`
}

// ScreenbusConfig configures the per-screen outbound delivery queue used by
// the Push Bus and screen-facing event channel.
type ScreenbusConfig struct {
	// OutboundQueueSize is the bounded per-screen send buffer. On overflow
	// the oldest queued message is dropped and a per-screen drop counter
	// is incremented.
	OutboundQueueSize int `koanf:"outbound_queue_size"`
	// WriteTimeout bounds a single send to a screen's connection.
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// ContentConfig configures where the signage content catalogue (reusable
// widgets, layout templates, and uploaded video assets) lives on disk.
// Screens pull playlist items by URL; these directories are what
// /api/content and /video serve those URLs from.
type ContentConfig struct {
	// WidgetsDir holds widget definition files (weather/clock/rss/etc.)
	// served read-only by the content catalogue.
	WidgetsDir string `koanf:"widgets_dir"`
	// TemplatesDir holds reusable layout templates.
	TemplatesDir string `koanf:"templates_dir"`
	// VideosDir holds uploaded video assets, streamed by the /video/:filename
	// route with HTTP range support.
	VideosDir string `koanf:"videos_dir"`
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
