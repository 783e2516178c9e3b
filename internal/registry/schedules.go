// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/models"
)

// CreateSchedule inserts a schedule binding a playlist to a screen target
// for a time/day window.
func (r *Registry) CreateSchedule(ctx context.Context, clientID string, s models.Schedule) (models.Schedule, error) {
	if s.PlaylistID == "" || s.ScreenTarget == "" || s.StartTime == "" || s.EndTime == "" {
		return models.Schedule{}, apperrors.InvalidInputf("playlistId, screenTarget, startTime and endTime are required")
	}
	if _, err := r.GetPlaylist(ctx, clientID, s.PlaylistID); err != nil {
		return models.Schedule{}, err
	}
	s.ID = newID()
	s.ClientID = clientID
	days, err := encodeJSON(s.Days)
	if err != nil {
		return models.Schedule{}, err
	}

	_, err = r.conn().ExecContext(ctx,
		`INSERT INTO schedules (id, client_id, playlist_id, screen_target, start_time, end_time, days,
		 priority, enabled) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ClientID, s.PlaylistID, s.ScreenTarget, s.StartTime, s.EndTime, days, s.Priority, s.Enabled)
	if err != nil {
		return models.Schedule{}, apperrors.Wrap(apperrors.DependencyFailed, "insert schedule", err)
	}
	return r.GetSchedule(ctx, clientID, s.ID)
}

// GetSchedule fetches a schedule scoped to clientID.
func (r *Registry) GetSchedule(ctx context.Context, clientID, id string) (models.Schedule, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, client_id, playlist_id, screen_target, start_time, end_time, days, priority,
		 enabled, created_at, updated_at FROM schedules WHERE id = ? AND client_id = ?`, id, clientID)
	return scanSchedule(row)
}

// ListSchedules returns every schedule for clientID, highest priority and
// most recently created first — the same ordering the evaluator uses to
// pick a winner.
func (r *Registry) ListSchedules(ctx context.Context, clientID string) ([]models.Schedule, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, playlist_id, screen_target, start_time, end_time, days, priority,
		 enabled, created_at, updated_at FROM schedules WHERE client_id = ?
		 ORDER BY priority DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, apperrors.Internalf("list schedules", err)
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListEnabledSchedules returns every enabled schedule for clientID in
// evaluator winner order: used directly by internal/schedule.
func (r *Registry) ListEnabledSchedules(ctx context.Context, clientID string) ([]models.Schedule, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, playlist_id, screen_target, start_time, end_time, days, priority,
		 enabled, created_at, updated_at FROM schedules WHERE client_id = ? AND enabled = TRUE
		 ORDER BY priority DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, apperrors.Internalf("list enabled schedules", err)
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSchedule applies a partial update to an existing schedule.
func (r *Registry) UpdateSchedule(ctx context.Context, clientID, id string, s models.Schedule) (models.Schedule, error) {
	days, err := encodeJSON(s.Days)
	if err != nil {
		return models.Schedule{}, err
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE schedules SET playlist_id = ?, screen_target = ?, start_time = ?, end_time = ?, days = ?,
		 priority = ?, enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		s.PlaylistID, s.ScreenTarget, s.StartTime, s.EndTime, days, s.Priority, s.Enabled, id, clientID)
	if err != nil {
		return models.Schedule{}, apperrors.Internalf("update schedule", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Schedule{}, apperrors.NotFoundf("schedule not found")
	}
	return r.GetSchedule(ctx, clientID, id)
}

// DeleteSchedule removes a schedule.
func (r *Registry) DeleteSchedule(ctx context.Context, clientID, id string) error {
	res, err := r.conn().ExecContext(ctx,
		`DELETE FROM schedules WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return apperrors.Internalf("delete schedule", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("schedule not found")
	}
	return nil
}

func scanSchedule(row rowScanner) (models.Schedule, error) {
	var s models.Schedule
	var days string
	err := row.Scan(&s.ID, &s.ClientID, &s.PlaylistID, &s.ScreenTarget, &s.StartTime, &s.EndTime,
		&days, &s.Priority, &s.Enabled, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Schedule{}, apperrors.NotFoundf("schedule not found")
		}
		return models.Schedule{}, apperrors.Internalf("scan schedule", err)
	}
	if err := decodeJSON(days, &s.Days); err != nil {
		return models.Schedule{}, err
	}
	return s, nil
}
