// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package config

import (
	"fmt"
	"time"
)

// Validate checks the configuration for consistency and returns an error
// describing the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRegistry(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if err := c.validateMood(); err != nil {
		return err
	}
	if err := c.validateScreenbus(); err != nil {
		return err
	}
	if err := c.validateContent(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment must be one of development, production, test, got: %s", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must be non-negative")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.enabled is true")
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("nats.url invalid: %w", err)
	}
	if c.NATS.SubscribersCount < 1 {
		return fmt.Errorf("nats.subscribers_count must be at least 1")
	}
	if c.NATS.MaxMemory < 0 || c.NATS.MaxStore < 0 {
		return fmt.Errorf("nats.max_memory and nats.max_store must be non-negative")
	}
	if c.NATS.RetentionDays < 0 {
		return fmt.Errorf("nats.retention_days must be non-negative")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size must be >= api.default_page_size")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1 unless rate limiting is disabled")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive unless rate limiting is disabled")
	}
	return nil
}

// ShouldWarnAboutCORS reports whether a wildcard CORS origin is configured
// in production, which the startup logger surfaces as a warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("logging.level must be a valid zerolog level, got: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRegistry() error {
	if c.Registry.HeartbeatInterval <= 0 {
		return fmt.Errorf("registry.heartbeat_interval must be positive")
	}
	if c.Registry.OfflineThreshold <= c.Registry.HeartbeatInterval {
		return fmt.Errorf("registry.offline_threshold must be greater than registry.heartbeat_interval")
	}
	if c.Registry.OfflineScanInterval <= 0 {
		return fmt.Errorf("registry.offline_scan_interval must be positive")
	}
	return nil
}

func (c *Config) validateSchedule() error {
	if c.Schedule.EvaluationInterval <= 0 {
		return fmt.Errorf("schedule.evaluation_interval must be positive")
	}
	if c.Schedule.MutationDebounce < 0 {
		return fmt.Errorf("schedule.mutation_debounce must be non-negative")
	}
	return nil
}

func (c *Config) validateMood() error {
	if c.Mood.CollectorHTTPTimeout <= 0 || c.Mood.CollectorHTTPTimeout > 10*time.Second {
		return fmt.Errorf("mood.collector_http_timeout must be positive and at most 10s")
	}
	if c.Mood.BroadcastInterval <= 0 {
		return fmt.Errorf("mood.broadcast_interval must be positive")
	}
	if c.Mood.WeatherAPIURL != "" {
		if err := validateHTTPURL(c.Mood.WeatherAPIURL, "mood.weather_api_url"); err != nil {
			return err
		}
	}
	if c.Mood.OccupancyAPIURL != "" {
		if err := validateHTTPURL(c.Mood.OccupancyAPIURL, "mood.occupancy_api_url"); err != nil {
			return err
		}
	}
	if c.Mood.SecurityAPIURL != "" {
		if err := validateHTTPURL(c.Mood.SecurityAPIURL, "mood.security_api_url"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateScreenbus() error {
	if c.Screenbus.OutboundQueueSize < 1 {
		return fmt.Errorf("screenbus.outbound_queue_size must be at least 1")
	}
	if c.Screenbus.WriteTimeout <= 0 {
		return fmt.Errorf("screenbus.write_timeout must be positive")
	}
	return nil
}

func (c *Config) validateContent() error {
	if c.Content.WidgetsDir == "" {
		return fmt.Errorf("content.widgets_dir is required")
	}
	if c.Content.TemplatesDir == "" {
		return fmt.Errorf("content.templates_dir is required")
	}
	if c.Content.VideosDir == "" {
		return fmt.Errorf("content.videos_dir is required")
	}
	return nil
}
