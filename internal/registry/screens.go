// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// RegisterScreen upserts a screen by id: a first-time register inserts the
// row; a re-register (reconnect after a restart) updates the reported
// platform/resolution/capabilities in place, both bringing the screen
// online. Idempotent: repeated registration never fails or duplicates.
func (r *Registry) RegisterScreen(ctx context.Context, clientID, id string, s models.Screen) (models.Screen, error) {
	if id == "" {
		return models.Screen{}, apperrors.InvalidInputf("screen id is required")
	}
	if s.Name == "" {
		s.Name = id
	}
	caps, err := encodeJSON(s.Capabilities)
	if err != nil {
		return models.Screen{}, err
	}
	cfg, err := encodeJSON(s.Config)
	if err != nil {
		return models.Screen{}, err
	}
	now := time.Now().UnixMilli()

	_, err = r.conn().ExecContext(ctx,
		`INSERT INTO screens (id, client_id, name, group_id, location_id, sync_group_id, type, status,
		 last_seen, platform, resolution, orientation, capabilities, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, group_id = excluded.group_id, location_id = excluded.location_id,
		   platform = excluded.platform, resolution = excluded.resolution,
		   orientation = excluded.orientation, capabilities = excluded.capabilities,
		   status = excluded.status, last_seen = excluded.last_seen, updated_at = CURRENT_TIMESTAMP`,
		id, clientID, s.Name, s.GroupID, s.LocationID, s.SyncGroupID, s.Type,
		models.ScreenStatusOnline, now, s.Platform, s.Resolution, s.Orientation, caps, cfg)
	if err != nil {
		return models.Screen{}, apperrors.Wrap(apperrors.DependencyFailed, "upsert screen", err)
	}

	r.setMode(id, models.ScreenModeSignage)
	return r.GetScreen(ctx, clientID, id)
}

// GetScreen fetches a screen scoped to clientID, enriched with its runtime
// connected/mode state.
func (r *Registry) GetScreen(ctx context.Context, clientID, id string) (models.Screen, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, client_id, name, group_id, location_id, sync_group_id, type, status, last_seen,
		 platform, resolution, orientation, capabilities, config, created_at, updated_at
		 FROM screens WHERE id = ? AND client_id = ?`, id, clientID)
	s, err := scanScreen(row)
	if err != nil {
		return models.Screen{}, err
	}
	r.enrich(&s)
	return s, nil
}

// ListScreens returns every screen for clientID, optionally filtered by
// locationID or groupID (either may be empty to mean "no filter"), enriched
// with runtime connected/mode state.
func (r *Registry) ListScreens(ctx context.Context, clientID, locationID, groupID string) ([]models.Screen, error) {
	query := `SELECT id, client_id, name, group_id, location_id, sync_group_id, type, status, last_seen,
		 platform, resolution, orientation, capabilities, config, created_at, updated_at
		 FROM screens WHERE client_id = ?`
	args := []interface{}{clientID}
	if locationID != "" {
		query += ` AND location_id = ?`
		args = append(args, locationID)
	}
	if groupID != "" {
		query += ` AND (group_id = ? OR sync_group_id = ?)`
		args = append(args, groupID, groupID)
	}
	query += ` ORDER BY name`

	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internalf("list screens", err)
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

// UpdateScreen applies a partial update (name, group/location/sync-group
// assignment, config) to an existing screen.
func (r *Registry) UpdateScreen(ctx context.Context, clientID, id string, s models.Screen) (models.Screen, error) {
	cfg, err := encodeJSON(s.Config)
	if err != nil {
		return models.Screen{}, err
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE screens SET name = ?, group_id = ?, location_id = ?, sync_group_id = ?, config = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		s.Name, s.GroupID, s.LocationID, s.SyncGroupID, cfg, id, clientID)
	if err != nil {
		return models.Screen{}, apperrors.Internalf("update screen", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Screen{}, apperrors.NotFoundf("screen not found")
	}
	return r.GetScreen(ctx, clientID, id)
}

// AssignSyncGroup sets (or clears, when groupID is nil) a screen's
// sync_group_id without touching its other fields — used by
// internal/syncengine's attach/detach operations.
func (r *Registry) AssignSyncGroup(ctx context.Context, clientID, screenID string, groupID *string) error {
	res, err := r.conn().ExecContext(ctx,
		`UPDATE screens SET sync_group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		groupID, screenID, clientID)
	if err != nil {
		return apperrors.Internalf("assign sync group", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("screen not found")
	}
	return nil
}

// DeleteScreen removes a screen's catalogue row and its in-memory mode and
// screenshot cache entries. The live connection, if any, is left to
// disconnect on its own (the registry does not forcibly close sockets).
func (r *Registry) DeleteScreen(ctx context.Context, clientID, id string) error {
	res, err := r.conn().ExecContext(ctx,
		`DELETE FROM screens WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return apperrors.Internalf("delete screen", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("screen not found")
	}
	r.mu.Lock()
	delete(r.modes, id)
	delete(r.screenshots, id)
	r.mu.Unlock()
	return nil
}

// ForceMode sets a screen's current mode without persisting it (the Screen
// Modes Map is runtime-only) and pushes a command:mode frame.
func (r *Registry) ForceMode(ctx context.Context, clientID, id, mode string) error {
	if _, err := r.GetScreen(ctx, clientID, id); err != nil {
		return err
	}
	r.setMode(id, mode)
	if r.bus != nil {
		r.bus.Send(id, screenbus.ServerMessage{
			Type: screenbus.ServerMsgCommandMode,
			Data: map[string]interface{}{"mode": mode},
		})
	}
	return nil
}

func (r *Registry) setMode(screenID, mode string) {
	r.mu.Lock()
	r.modes[screenID] = mode
	r.mu.Unlock()
}

func (r *Registry) modeOf(screenID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.modes[screenID]; ok {
		return m
	}
	return models.ScreenModeSignage
}

// enrich populates the runtime-only Connected/CurrentMode fields from the
// Hub and Screen Modes Map.
func (r *Registry) enrich(s *models.Screen) {
	s.CurrentMode = r.modeOf(s.ID)
	if r.bus != nil {
		s.Connected = r.bus.Connected(s.ID)
	}
}

func scanScreen(row rowScanner) (models.Screen, error) {
	var s models.Screen
	var caps, cfg string
	var locationID, syncGroupID sql.NullString
	err := row.Scan(&s.ID, &s.ClientID, &s.Name, &s.GroupID, &locationID, &syncGroupID, &s.Type,
		&s.Status, &s.LastSeen, &s.Platform, &s.Resolution, &s.Orientation, &caps, &cfg,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Screen{}, apperrors.NotFoundf("screen not found")
		}
		return models.Screen{}, apperrors.Internalf("scan screen", err)
	}
	if locationID.Valid {
		s.LocationID = &locationID.String
	}
	if syncGroupID.Valid {
		s.SyncGroupID = &syncGroupID.String
	}
	if err := decodeJSON(caps, &s.Capabilities); err != nil {
		return models.Screen{}, err
	}
	if err := decodeJSON(cfg, &s.Config); err != nil {
		return models.Screen{}, err
	}
	return s, nil
}
