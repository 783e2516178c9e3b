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

// CreateLocation inserts a location belonging to clientID.
func (r *Registry) CreateLocation(ctx context.Context, clientID string, l models.Location) (models.Location, error) {
	if l.Name == "" {
		return models.Location{}, apperrors.InvalidInputf("name is required")
	}
	if l.Timezone == "" {
		l.Timezone = "UTC"
	}
	l.ID = newID()
	l.ClientID = clientID
	cfg, err := encodeJSON(l.Config)
	if err != nil {
		return models.Location{}, err
	}

	_, err = r.conn().ExecContext(ctx,
		`INSERT INTO locations (id, client_id, name, address, lat, lon, timezone, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.ClientID, l.Name, l.Address, l.Lat, l.Lon, l.Timezone, cfg)
	if err != nil {
		return models.Location{}, apperrors.Wrap(apperrors.DependencyFailed, "insert location", err)
	}
	return r.GetLocation(ctx, clientID, l.ID)
}

// GetLocation fetches a location scoped to clientID.
func (r *Registry) GetLocation(ctx context.Context, clientID, id string) (models.Location, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, client_id, name, address, lat, lon, timezone, config, created_at, updated_at
		 FROM locations WHERE id = ? AND client_id = ?`, id, clientID)
	return scanLocation(row)
}

// ListLocations returns every location for clientID, ordered by name.
func (r *Registry) ListLocations(ctx context.Context, clientID string) ([]models.Location, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, name, address, lat, lon, timezone, config, created_at, updated_at
		 FROM locations WHERE client_id = ? ORDER BY name`, clientID)
	if err != nil {
		return nil, apperrors.Internalf("list locations", err)
	}
	defer rows.Close()

	var out []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateLocation applies a partial update to an existing location.
func (r *Registry) UpdateLocation(ctx context.Context, clientID, id string, l models.Location) (models.Location, error) {
	cfg, err := encodeJSON(l.Config)
	if err != nil {
		return models.Location{}, err
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE locations SET name = ?, address = ?, lat = ?, lon = ?, timezone = ?, config = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		l.Name, l.Address, l.Lat, l.Lon, l.Timezone, cfg, id, clientID)
	if err != nil {
		return models.Location{}, apperrors.Internalf("update location", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Location{}, apperrors.NotFoundf("location not found")
	}
	return r.GetLocation(ctx, clientID, id)
}

// DeleteLocation removes a location. Screens at this location have
// location_id set NULL by the schema's ON DELETE SET NULL, not deleted.
func (r *Registry) DeleteLocation(ctx context.Context, clientID, id string) error {
	res, err := r.conn().ExecContext(ctx,
		`DELETE FROM locations WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return apperrors.Internalf("delete location", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("location not found")
	}
	return nil
}

// AllLocations returns every location across every client, for subsystems
// (the Context/Mood Engine) that operate process-wide rather than per
// tenant.
func (r *Registry) AllLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, name, address, lat, lon, timezone, config, created_at, updated_at
		 FROM locations ORDER BY name`)
	if err != nil {
		return nil, apperrors.Internalf("list all locations", err)
	}
	defer rows.Close()

	var out []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ScreenIDsAtLocation returns the ids of every screen assigned to
// locationID, across every client, filtered to those currently connected
// to the Hub — exactly the recipient set for a location-scoped broadcast
// such as the Context/Mood Engine's context:mood frame.
func (r *Registry) ScreenIDsAtLocation(ctx context.Context, locationID string) ([]string, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id FROM screens WHERE location_id = ?`, locationID)
	if err != nil {
		return nil, apperrors.Internalf("list screens at location", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Internalf("scan screen id", err)
		}
		if r.bus == nil || r.bus.Connected(id) {
			out = append(out, id)
		}
	}
	return out, rows.Err()
}

func scanLocation(row rowScanner) (models.Location, error) {
	var l models.Location
	var cfg string
	err := row.Scan(&l.ID, &l.ClientID, &l.Name, &l.Address, &l.Lat, &l.Lon, &l.Timezone, &cfg,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Location{}, apperrors.NotFoundf("location not found")
		}
		return models.Location{}, apperrors.Internalf("scan location", err)
	}
	if err := decodeJSON(cfg, &l.Config); err != nil {
		return models.Location{}, err
	}
	return l, nil
}
