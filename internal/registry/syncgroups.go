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

var validSyncModes = map[string]bool{
	models.SyncModeMirror:        true,
	models.SyncModeComplementary: true,
	models.SyncModeSpan:          true,
}

// CreateSyncGroup inserts a sync group; internal/syncengine owns the
// runtime playback state (current item, timers) for the group, this package
// owns only its catalogue row.
func (r *Registry) CreateSyncGroup(ctx context.Context, clientID string, g models.SyncGroup) (models.SyncGroup, error) {
	if g.Name == "" {
		return models.SyncGroup{}, apperrors.InvalidInputf("name is required")
	}
	if !validSyncModes[g.Mode] {
		return models.SyncGroup{}, apperrors.InvalidInputf("mode must be mirror, complementary or span")
	}
	g.ID = newID()
	g.ClientID = clientID
	cfg, err := encodeJSON(g.Config)
	if err != nil {
		return models.SyncGroup{}, err
	}

	_, err = r.conn().ExecContext(ctx,
		`INSERT INTO sync_groups (id, client_id, name, mode, playlist_id, leader_screen_id, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.ClientID, g.Name, g.Mode, g.PlaylistID, g.LeaderScreenID, cfg)
	if err != nil {
		return models.SyncGroup{}, apperrors.Wrap(apperrors.DependencyFailed, "insert sync group", err)
	}
	return r.GetSyncGroup(ctx, clientID, g.ID)
}

// GetSyncGroup fetches a sync group scoped to clientID.
func (r *Registry) GetSyncGroup(ctx context.Context, clientID, id string) (models.SyncGroup, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, client_id, name, mode, playlist_id, leader_screen_id, config, created_at, updated_at
		 FROM sync_groups WHERE id = ? AND client_id = ?`, id, clientID)
	return scanSyncGroup(row)
}

// ListSyncGroups returns every sync group for clientID, ordered by name.
func (r *Registry) ListSyncGroups(ctx context.Context, clientID string) ([]models.SyncGroup, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, name, mode, playlist_id, leader_screen_id, config, created_at, updated_at
		 FROM sync_groups WHERE client_id = ? ORDER BY name`, clientID)
	if err != nil {
		return nil, apperrors.Internalf("list sync groups", err)
	}
	defer rows.Close()

	var out []models.SyncGroup
	for rows.Next() {
		g, err := scanSyncGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateSyncGroup applies a partial update to an existing sync group.
func (r *Registry) UpdateSyncGroup(ctx context.Context, clientID, id string, g models.SyncGroup) (models.SyncGroup, error) {
	if g.Mode != "" && !validSyncModes[g.Mode] {
		return models.SyncGroup{}, apperrors.InvalidInputf("mode must be mirror, complementary or span")
	}
	cfg, err := encodeJSON(g.Config)
	if err != nil {
		return models.SyncGroup{}, err
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE sync_groups SET name = ?, mode = ?, playlist_id = ?, leader_screen_id = ?, config = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		g.Name, g.Mode, g.PlaylistID, g.LeaderScreenID, cfg, id, clientID)
	if err != nil {
		return models.SyncGroup{}, apperrors.Internalf("update sync group", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.SyncGroup{}, apperrors.NotFoundf("sync group not found")
	}
	return r.GetSyncGroup(ctx, clientID, id)
}

// DeleteSyncGroup removes a sync group. Screens with sync_group_id pointing
// at it have the column set NULL per database_schema.go's ON DELETE SET
// NULL, leaving them as standalone screens rather than deleting them.
func (r *Registry) DeleteSyncGroup(ctx context.Context, clientID, id string) error {
	res, err := r.conn().ExecContext(ctx,
		`DELETE FROM sync_groups WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return apperrors.Internalf("delete sync group", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("sync group not found")
	}
	return nil
}

// SyncGroupScreens returns every screen currently assigned to
// group id, ordered deterministically by (sort_key, id) — sort_key here
// is the screen's name, the only user-assignable ordering field on the
// catalogue row.
func (r *Registry) SyncGroupScreens(ctx context.Context, clientID, groupID string) ([]models.Screen, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, name, group_id, location_id, sync_group_id, type, status, last_seen,
		 platform, resolution, orientation, capabilities, config, created_at, updated_at
		 FROM screens WHERE client_id = ? AND sync_group_id = ? ORDER BY name, id`, clientID, groupID)
	if err != nil {
		return nil, apperrors.Internalf("list sync group screens", err)
	}
	defer rows.Close()

	var out []models.Screen
	for rows.Next() {
		s, err := scanScreen(rows)
		if err != nil {
			return nil, err
		}
		r.enrich(&s)
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSyncGroup(row rowScanner) (models.SyncGroup, error) {
	var g models.SyncGroup
	var cfg string
	var playlistID, leaderID sql.NullString
	err := row.Scan(&g.ID, &g.ClientID, &g.Name, &g.Mode, &playlistID, &leaderID, &cfg,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncGroup{}, apperrors.NotFoundf("sync group not found")
		}
		return models.SyncGroup{}, apperrors.Internalf("scan sync group", err)
	}
	if playlistID.Valid {
		g.PlaylistID = &playlistID.String
	}
	if leaderID.Valid {
		g.LeaderScreenID = &leaderID.String
	}
	if err := decodeJSON(cfg, &g.Config); err != nil {
		return models.SyncGroup{}, err
	}
	return g, nil
}
