// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"time"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/database"
	"github.com/opensignage/cartograph/internal/eventbus"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/mood"
	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/schedule"
	"github.com/opensignage/cartograph/internal/screenbus"
	"github.com/opensignage/cartograph/internal/syncengine"
)

// Handler holds every dependency the HTTP surface needs to serve its
// route table: the Screen Registry & Push Bus, the Sync Engine, the
// Schedule Evaluator, the Context/Mood Engine, the screen-facing WebSocket
// hub, and the cross-process event bus.
type Handler struct {
	cfg *config.Config
	db  *database.DB

	registry   *registry.Registry
	syncEngine *syncengine.Engine
	schedule   *schedule.Evaluator
	mood       *mood.Engine
	bus        *screenbus.Hub
	eventBus   *eventbus.Bus
	audit      *logging.AuditLogger

	startTime time.Time
}

// NewHandler wires a Handler from the control plane's constructed
// subsystems. Construction never fails; each subsystem's own Start
// surfaces startup errors to the supervisor tree.
func NewHandler(
	cfg *config.Config,
	db *database.DB,
	reg *registry.Registry,
	syncEngine *syncengine.Engine,
	sched *schedule.Evaluator,
	moodEngine *mood.Engine,
	bus *screenbus.Hub,
	eventBus *eventbus.Bus,
) *Handler {
	return &Handler{
		cfg:        cfg,
		db:         db,
		registry:   reg,
		syncEngine: syncEngine,
		schedule:   sched,
		mood:       moodEngine,
		bus:        bus,
		eventBus:   eventBus,
		audit:      logging.NewAuditLogger(),
		startTime:  time.Now(),
	}
}
