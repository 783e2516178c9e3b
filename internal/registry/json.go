// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"github.com/goccy/go-json"

	"github.com/opensignage/cartograph/internal/apperrors"
)

// encodeJSON marshals v to a string for a JSON-typed column. Empty/nil
// values marshal to "null" rather than erroring.
func encodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", apperrors.Internalf("encode json column", err)
	}
	return string(b), nil
}

// decodeJSON unmarshals a JSON column value (sql.NullString.String, "" when
// NULL) into out, leaving out at its zero value for an empty/null column.
func decodeJSON(raw string, out interface{}) error {
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperrors.Internalf("decode json column", err)
	}
	return nil
}
