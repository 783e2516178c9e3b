// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuditEvent represents an administrative, tenant-scoped action worth its
// own audit trail entry, distinct from the per-request access log: setting
// changes, forced screen-mode overrides, and client-resolution failures
// that would otherwise only appear as an ordinary request log line.
type AuditEvent struct {
	// Event is the action name (e.g. "setting_changed", "force_mode",
	// "client_resolve_failed").
	Event string
	// ClientID is the resolved tenant the action was scoped to, if any.
	ClientID string
	// ScreenID is the screen affected, if the action targets one.
	ScreenID string
	// IPAddress is the caller's address.
	IPAddress string
	// Success indicates whether the action completed.
	Success bool
	// Error is the failure reason, sanitized, when Success is false.
	Error string
	// Details carries additional sanitized key/value context.
	Details map[string]string
}

// AuditLogger logs administrative control-plane actions with automatic
// sanitization of anything that looks like a credential.
type AuditLogger struct {
	logger zerolog.Logger
}

// NewAuditLogger creates an audit logger using the package-level logger.
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{logger: With().Str("component", "audit").Logger()}
}

// NewAuditLoggerWithLogger creates an audit logger wrapping a caller-supplied
// zerolog logger, for tests that want to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditLoggerWithLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With().Str("component", "audit").Logger()}
}

// LogEvent logs an audit event with automatic sanitization of Details.
func (l *AuditLogger) LogEvent(event *AuditEvent) {
	e := l.logger.Info().Str("event", event.Event)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}

	if event.ClientID != "" {
		e = e.Str("client_id", SanitizeUserID(event.ClientID))
	}
	if event.ScreenID != "" {
		e = e.Str("screen_id", event.ScreenID)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// LogSettingChanged logs a settings-key change.
func (l *AuditLogger) LogSettingChanged(clientID, key, value, ip string) {
	l.LogEvent(&AuditEvent{
		Event:     "setting_changed",
		ClientID:  clientID,
		IPAddress: ip,
		Success:   true,
		Details:   map[string]string{"key": key, "value": value},
	})
}

// LogForceMode logs a screen mode override.
func (l *AuditLogger) LogForceMode(clientID, screenID, mode, ip string) {
	l.LogEvent(&AuditEvent{
		Event:     "force_mode",
		ClientID:  clientID,
		ScreenID:  screenID,
		IPAddress: ip,
		Success:   true,
		Details:   map[string]string{"mode": mode},
	})
}

// LogClientResolveFailed logs a tenant-resolution failure (unknown or
// missing X-Client-Id), the control-plane analogue of a failed login.
func (l *AuditLogger) LogClientResolveFailed(ref, ip, reason string) {
	l.LogEvent(&AuditEvent{
		Event:     "client_resolve_failed",
		IPAddress: ip,
		Success:   false,
		Error:     reason,
		Details:   map[string]string{"client_ref": ref},
	})
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeSessionID masks a session ID.
// Example: "abc123def456ghi789" -> "abc1...i789"
func SanitizeSessionID(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	if len(sessionID) <= 12 {
		return "***"
	}
	return sessionID[:4] + "..." + sessionID[len(sessionID)-4:]
}

// SanitizeUserID masks a client/user identifier for privacy.
// Example: "client-12345678" -> "clie...5678"
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeUsername masks a username, keeping first 2 characters.
// Example: "johndoe" -> "jo***"
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

// SanitizeEmail masks an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}

	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := map[string]bool{
		"access_token":  true,
		"refresh_token": true,
		"id_token":      true,
		"token":         true,
		"password":      true,
		"secret":        true,
		"api_key":       true,
		"apikey":        true,
		"authorization": true,
		"bearer":        true,
		"cookie":        true,
		"session":       true,
		"session_id":    true,
		"sessionid":     true,
	}

	if sensitiveKeys[lowerKey] {
		return SanitizeToken(value)
	}

	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}

	return value
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
