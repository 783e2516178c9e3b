// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/database"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// Screenshot is the most recent captureScreenshot response cached for a
// screen, held in memory only.
type Screenshot struct {
	Image []byte
	Taken time.Time
}

// Registry owns the catalogue tables, the Screen Modes Map and Screenshot
// Cache, and the screen-facing Hub. It implements screenbus.InboundHandler
// so screen-originated frames are handled without screenbus depending on it.
type Registry struct {
	db  *database.DB
	bus *screenbus.Hub
	cfg config.RegistryConfig

	mu          sync.RWMutex
	modes       map[string]string     // screenID -> current mode
	screenshots map[string]Screenshot // screenID -> last screenshot

	stop chan struct{}
	done chan struct{}
}

// New constructs a Registry bound to db. AttachBus must be called once the
// screenbus.Hub has been constructed with this Registry as its handler,
// resolving the constructor cycle between the two packages.
func New(db *database.DB, cfg config.RegistryConfig) *Registry {
	return &Registry{
		db:          db,
		cfg:         cfg,
		modes:       make(map[string]string),
		screenshots: make(map[string]Screenshot),
	}
}

// AttachBus binds the Hub this Registry dispatches pushes and commands
// through.
func (r *Registry) AttachBus(bus *screenbus.Hub) {
	r.bus = bus
}

func (r *Registry) conn() *sql.DB {
	return r.db.Conn()
}

func newID() string {
	return uuid.New().String()
}

// Start begins the offline-transition scanner: a screen with no heartbeat
// for OfflineThreshold is marked offline on the next OfflineScanInterval
// tick. Satisfies services.StartStopper.
func (r *Registry) Start(ctx context.Context) error {
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.scanLoop(ctx)
	return nil
}

// Stop halts the offline-transition scanner and waits for it to exit.
func (r *Registry) Stop() error {
	if r.stop == nil {
		return nil
	}
	close(r.stop)
	<-r.done
	return nil
}

func (r *Registry) scanLoop(ctx context.Context) {
	defer close(r.done)
	interval := r.cfg.OfflineScanInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			if err := r.markOfflineScreens(ctx); err != nil {
				logging.Error().Err(err).Msg("registry: offline scan failed")
			}
		}
	}
}

func (r *Registry) markOfflineScreens(ctx context.Context) error {
	cutoff := time.Now().Add(-r.OfflineThreshold(ctx)).UnixMilli()

	res, err := r.conn().ExecContext(ctx,
		`UPDATE screens SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE status = ? AND last_seen < ?`,
		models.ScreenStatusOffline, models.ScreenStatusOnline, cutoff)
	if err != nil {
		return apperrors.Internalf("mark offline screens", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logging.Info().Int64("count", n).Msg("registry: screens transitioned offline")
	}
	return nil
}

// heartbeatDeadlineExceeded reports whether the given last-seen epoch
// millisecond timestamp is older than the static RegistryConfig offline
// threshold. Nothing in the repository calls it at present.
func (r *Registry) heartbeatDeadlineExceeded(lastSeenMS int64) bool {
	threshold := r.cfg.OfflineThreshold
	if threshold <= 0 {
		threshold = 90 * time.Second
	}
	return time.UnixMilli(lastSeenMS).Before(time.Now().Add(-threshold))
}
