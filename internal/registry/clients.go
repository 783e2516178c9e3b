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

// CreateClient inserts a new tenant.
func (r *Registry) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	if c.Name == "" || c.Slug == "" {
		return models.Client{}, apperrors.InvalidInputf("name and slug are required")
	}
	c.ID = newID()
	if c.Plan == "" {
		c.Plan = "basic"
	}
	branding, err := encodeJSON(c.Branding)
	if err != nil {
		return models.Client{}, err
	}

	_, err = r.conn().ExecContext(ctx,
		`INSERT INTO clients (id, name, slug, logo_url, branding, contact, plan, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Slug, c.LogoURL, branding, c.Contact, c.Plan, true)
	if err != nil {
		return models.Client{}, apperrors.Wrap(apperrors.Conflict, "slug already in use", err)
	}
	return r.GetClient(ctx, c.ID)
}

// GetClient fetches a client by id.
func (r *Registry) GetClient(ctx context.Context, id string) (models.Client, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT id, name, slug, logo_url, branding, contact, plan, active, created_at, updated_at
		 FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

// ListClients returns every tenant, ordered by name.
func (r *Registry) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT id, name, slug, logo_url, branding, contact, plan, active, created_at, updated_at
		 FROM clients ORDER BY name`)
	if err != nil {
		return nil, apperrors.Internalf("list clients", err)
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateClient applies a partial update to an existing client.
func (r *Registry) UpdateClient(ctx context.Context, id string, c models.Client) (models.Client, error) {
	branding, err := encodeJSON(c.Branding)
	if err != nil {
		return models.Client{}, err
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE clients SET name = ?, logo_url = ?, branding = ?, contact = ?, plan = ?, active = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		c.Name, c.LogoURL, branding, c.Contact, c.Plan, c.Active, id)
	if err != nil {
		return models.Client{}, apperrors.Internalf("update client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Client{}, apperrors.NotFoundf("client not found")
	}
	return r.GetClient(ctx, id)
}

// DeleteClient removes a client and, via ON DELETE CASCADE, every location,
// screen, playlist, schedule, sync group and announcement it owns. The
// bootstrap tenant cannot be deleted.
func (r *Registry) DeleteClient(ctx context.Context, id string) error {
	client, err := r.GetClient(ctx, id)
	if err != nil {
		return err
	}
	if client.Slug == models.BootstrapClientSlug {
		return apperrors.Forbiddenf("the bootstrap client cannot be deleted")
	}
	res, err := r.conn().ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return apperrors.Internalf("delete client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("client not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (models.Client, error) {
	var c models.Client
	var branding string
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.LogoURL, &branding, &c.Contact, &c.Plan,
		&c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, apperrors.NotFoundf("client not found")
		}
		return models.Client{}, apperrors.Internalf("scan client", err)
	}
	if err := decodeJSON(branding, &c.Branding); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// resolveClientID resolves the X-Client-Id/client_id tenant reference (an id
// or a slug) to a client id, defaulting to the bootstrap tenant when empty.
func (r *Registry) resolveClientID(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		ref = models.BootstrapClientSlug
	}
	row := r.conn().QueryRowContext(ctx, `SELECT id FROM clients WHERE id = ? OR slug = ?`, ref, ref)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.NotFoundf("unknown client: " + ref)
		}
		return "", apperrors.Internalf("resolve client", err)
	}
	return id, nil
}

// ResolveClientID is the exported form used by internal/api to turn the
// X-Client-Id header / client_id query param into a client id before
// scoping any other registry call.
func (r *Registry) ResolveClientID(ctx context.Context, ref string) (string, error) {
	return r.resolveClientID(ctx, ref)
}
