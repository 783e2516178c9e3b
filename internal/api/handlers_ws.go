// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// ServeScreenSocket handles GET /ws: the screen-facing WebSocket upgrade.
// Screens authenticate themselves with a player:register frame once
// connected; the upgrade itself carries no tenant or auth context, matching
// the control plane's trusted-LAN deployment model.
func (h *Handler) ServeScreenSocket(w http.ResponseWriter, r *http.Request) {
	if err := screenbus.Upgrade(h.bus, w, r); err != nil {
		logging.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("screen websocket upgrade failed")
	}
}
