// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/models"
)

// defaultSettings seeds the well-known keys a fresh install relies on.
var defaultSettings = map[string]string{
	models.SettingOfflineThresholdMinutes: "10",
	models.SettingAlertAutoExpireMS:       "30000",
	models.SettingDefaultTransition:       models.TransitionFade,
}

// ListSettings returns every process-wide setting, falling back to defaults
// for keys never explicitly written.
func (r *Registry) ListSettings(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.conn().QueryContext(ctx, `SELECT key, value, updated_at FROM settings`)
	if err != nil {
		return nil, apperrors.Internalf("list settings", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var out []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, apperrors.Internalf("scan setting", err)
		}
		seen[s.Key] = true
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internalf("list settings", err)
	}
	for key, value := range defaultSettings {
		if !seen[key] {
			out = append(out, models.Setting{Key: key, Value: value})
		}
	}
	return out, nil
}

// PutSetting upserts a single process-wide setting.
func (r *Registry) PutSetting(ctx context.Context, key, value string) (models.Setting, error) {
	if key == "" {
		return models.Setting{}, apperrors.InvalidInputf("key is required")
	}
	_, err := r.conn().ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return models.Setting{}, apperrors.Internalf("put setting", err)
	}
	row := r.conn().QueryRowContext(ctx, `SELECT key, value, updated_at FROM settings WHERE key = ?`, key)
	var s models.Setting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Setting{}, apperrors.NotFoundf("setting not found")
		}
		return models.Setting{}, apperrors.Internalf("scan setting", err)
	}
	return s, nil
}

// OfflineThreshold returns the operator-configured offline threshold,
// falling back to the static RegistryConfig value when the setting was
// never written or fails to parse.
func (r *Registry) OfflineThreshold(ctx context.Context) time.Duration {
	row := r.conn().QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, models.SettingOfflineThresholdMinutes)
	var value string
	if err := row.Scan(&value); err != nil {
		return r.cfg.OfflineThreshold
	}
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		return r.cfg.OfflineThreshold
	}
	return time.Duration(minutes) * time.Minute
}
