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

// CreateAnnouncement inserts a location-scoped (or global, when locationID
// is nil) banner message.
func (r *Registry) CreateAnnouncement(ctx context.Context, clientID string, a models.Announcement) (models.Announcement, error) {
	if a.Title == "" || a.Message == "" {
		return models.Announcement{}, apperrors.InvalidInputf("title and message are required")
	}
	if a.Priority == "" {
		a.Priority = models.AnnouncementPriorityNormal
	}
	a.ID = newID()
	a.ClientID = clientID

	_, err := r.conn().ExecContext(ctx,
		`INSERT INTO announcements (id, client_id, location_id, title, message, icon, priority, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ClientID, a.LocationID, a.Title, a.Message, a.Icon, a.Priority, a.Active)
	if err != nil {
		return models.Announcement{}, apperrors.Wrap(apperrors.DependencyFailed, "insert announcement", err)
	}
	return r.GetAnnouncement(ctx, clientID, a.ID)
}

// GetAnnouncement fetches an announcement scoped to clientID.
func (r *Registry) GetAnnouncement(ctx context.Context, clientID, id string) (models.Announcement, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, client_id, location_id, title, message, icon, priority, active, created_at, updated_at
		 FROM announcements WHERE id = ? AND client_id = ?`, id, clientID)
	return scanAnnouncement(row)
}

// ListAnnouncements returns every announcement for clientID, most recent
// first.
func (r *Registry) ListAnnouncements(ctx context.Context, clientID string) ([]models.Announcement, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, location_id, title, message, icon, priority, active, created_at, updated_at
		 FROM announcements WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, apperrors.Internalf("list announcements", err)
	}
	defer rows.Close()

	var out []models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAnnouncement applies a partial update to an existing announcement.
func (r *Registry) UpdateAnnouncement(ctx context.Context, clientID, id string, a models.Announcement) (models.Announcement, error) {
	res, err := r.conn().ExecContext(ctx,
		`UPDATE announcements SET location_id = ?, title = ?, message = ?, icon = ?, priority = ?,
		 active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		a.LocationID, a.Title, a.Message, a.Icon, a.Priority, a.Active, id, clientID)
	if err != nil {
		return models.Announcement{}, apperrors.Internalf("update announcement", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Announcement{}, apperrors.NotFoundf("announcement not found")
	}
	return r.GetAnnouncement(ctx, clientID, id)
}

// DeleteAnnouncement removes an announcement.
func (r *Registry) DeleteAnnouncement(ctx context.Context, clientID, id string) error {
	res, err := r.conn().ExecContext(ctx,
		`DELETE FROM announcements WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return apperrors.Internalf("delete announcement", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("announcement not found")
	}
	return nil
}

func scanAnnouncement(row rowScanner) (models.Announcement, error) {
	var a models.Announcement
	var locationID sql.NullString
	err := row.Scan(&a.ID, &a.ClientID, &locationID, &a.Title, &a.Message, &a.Icon, &a.Priority,
		&a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Announcement{}, apperrors.NotFoundf("announcement not found")
		}
		return models.Announcement{}, apperrors.Internalf("scan announcement", err)
	}
	if locationID.Valid {
		a.LocationID = &locationID.String
	}
	return a, nil
}
