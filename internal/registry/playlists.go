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

// CreatePlaylist inserts a playlist. An empty Items slice is rejected with
// the EMPTY_PLAYLIST error kind, since an empty playlist can never be
// pushed or scheduled meaningfully.
func (r *Registry) CreatePlaylist(ctx context.Context, clientID string, p models.Playlist) (models.Playlist, error) {
	if p.Name == "" {
		return models.Playlist{}, apperrors.InvalidInputf("name is required")
	}
	if len(p.Items) == 0 {
		return models.Playlist{}, apperrors.EmptyPlaylistf("playlist must contain at least one item")
	}
	if p.Transition == "" {
		p.Transition = models.TransitionFade
	}
	p.ID = newID()
	p.ClientID = clientID
	items, err := encodeJSON(p.Items)
	if err != nil {
		return models.Playlist{}, err
	}

	_, err = r.conn().ExecContext(ctx,
		`INSERT INTO playlists (id, client_id, name, description, items, loop, transition)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, p.Name, p.Description, items, p.Loop, p.Transition)
	if err != nil {
		return models.Playlist{}, apperrors.Wrap(apperrors.DependencyFailed, "insert playlist", err)
	}
	return r.GetPlaylist(ctx, clientID, p.ID)
}

// GetPlaylist fetches a playlist scoped to clientID.
func (r *Registry) GetPlaylist(ctx context.Context, clientID, id string) (models.Playlist, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, client_id, name, description, items, loop, transition, created_at, updated_at
		 FROM playlists WHERE id = ? AND client_id = ?`, id, clientID)
	return scanPlaylist(row)
}

// ListPlaylists returns every playlist for clientID, ordered by name.
func (r *Registry) ListPlaylists(ctx context.Context, clientID string) ([]models.Playlist, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, client_id, name, description, items, loop, transition, created_at, updated_at
		 FROM playlists WHERE client_id = ? ORDER BY name`, clientID)
	if err != nil {
		return nil, apperrors.Internalf("list playlists", err)
	}
	defer rows.Close()

	var out []models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePlaylist applies a partial update to an existing playlist.
func (r *Registry) UpdatePlaylist(ctx context.Context, clientID, id string, p models.Playlist) (models.Playlist, error) {
	if len(p.Items) == 0 {
		return models.Playlist{}, apperrors.EmptyPlaylistf("playlist must contain at least one item")
	}
	items, err := encodeJSON(p.Items)
	if err != nil {
		return models.Playlist{}, err
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE playlists SET name = ?, description = ?, items = ?, loop = ?, transition = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ? AND client_id = ?`,
		p.Name, p.Description, items, p.Loop, p.Transition, id, clientID)
	if err != nil {
		return models.Playlist{}, apperrors.Internalf("update playlist", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Playlist{}, apperrors.NotFoundf("playlist not found")
	}
	return r.GetPlaylist(ctx, clientID, id)
}

// DeletePlaylist removes a playlist. Schedules and sync groups referencing
// it are cascade-removed or foreign-keyed per database_schema.go.
func (r *Registry) DeletePlaylist(ctx context.Context, clientID, id string) error {
	res, err := r.conn().ExecContext(ctx,
		`DELETE FROM playlists WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return apperrors.Internalf("delete playlist", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("playlist not found")
	}
	return nil
}

func scanPlaylist(row rowScanner) (models.Playlist, error) {
	var p models.Playlist
	var items string
	err := row.Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &items, &p.Loop, &p.Transition,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Playlist{}, apperrors.NotFoundf("playlist not found")
		}
		return models.Playlist{}, apperrors.Internalf("scan playlist", err)
	}
	if err := decodeJSON(items, &p.Items); err != nil {
		return models.Playlist{}, err
	}
	return p, nil
}
