// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/models"
)

// ResolveTarget implements the four-step target resolution order,
// returning the ids of every screen the target currently matches that also
// has a live connection:
//
//  1. the literal "all": every connected screen for the client
//  2. a sync group or free-standing group id: every connected screen
//     tagged with it
//  3. a location id: every connected screen at that location
//  4. a single screen id: that screen, if connected
//
// A target that resolves to zero connected screens is not an error: it
// returns successfully with zero recipients.
func (r *Registry) ResolveTarget(ctx context.Context, clientID, target string) ([]string, error) {
	if target == "" {
		return nil, apperrors.InvalidInputf("target is required")
	}

	if target == models.ScreenTargetAll {
		return r.connectedIDs(ctx, `SELECT id FROM screens WHERE client_id = ?`, clientID)
	}

	if ids, err := r.connectedIDs(ctx,
		`SELECT id FROM screens WHERE client_id = ? AND (group_id = ? OR sync_group_id = ?)`,
		clientID, target, target); err != nil {
		return nil, err
	} else if len(ids) > 0 {
		return ids, nil
	}

	if ids, err := r.connectedIDs(ctx,
		`SELECT id FROM screens WHERE client_id = ? AND location_id = ?`, clientID, target); err != nil {
		return nil, err
	} else if len(ids) > 0 {
		return ids, nil
	}

	return r.connectedIDs(ctx, `SELECT id FROM screens WHERE client_id = ? AND id = ?`, clientID, target)
}

func (r *Registry) connectedIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internalf("resolve target", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Internalf("scan target id", err)
		}
		if r.bus == nil || r.bus.Connected(id) {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
