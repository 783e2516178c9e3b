// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package mood

import (
	"context"
	"sync"
	"time"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/screenbus"
)

const interpolationInterval = 500 * time.Millisecond

// Engine owns the Current/Target Mood Maps, runs the interpolation and
// broadcast loops, and drives the Collectors set.
type Engine struct {
	reg        *registry.Registry
	bus        *screenbus.Hub
	cache      *Cache
	collectors *Collectors
	cfg        config.MoodConfig

	mu      sync.RWMutex
	current map[string]models.MoodVector

	stop chan struct{}
	done chan struct{}
}

// New constructs a mood Engine. reg supplies the location list (cross-
// tenant, via AllLocations) and screen fanout scoping (via
// ScreenIDsAtLocation); bus delivers the context:mood frames.
func New(reg *registry.Registry, bus *screenbus.Hub, cfg config.MoodConfig) *Engine {
	cache := NewCache()
	return &Engine{
		reg:        reg,
		bus:        bus,
		cache:      cache,
		collectors: NewCollectors(cache, cfg, reg.AllLocations),
		cfg:        cfg,
		current:    make(map[string]models.MoodVector),
	}
}

// Collectors exposes the collector set so callers (cmd/server wiring, or
// an operator's real sensor integration) can register stream sources with
// SetAudioSource/SetPeopleCountSource before or after Start.
func (e *Engine) Collectors() *Collectors { return e.collectors }

// Current returns a location's current (interpolated) Mood Vector, along
// with the signal bag it was derived from — used by the /api/context
// handler.
func (e *Engine) Current(locationID string) (models.MoodVector, Signals) {
	e.mu.RLock()
	v, ok := e.current[locationID]
	e.mu.RUnlock()
	if !ok {
		v = models.DefaultMoodVector()
	}
	return v, e.cache.Get(locationID)
}

// Start satisfies services.StartStopper: launches the collector set plus
// this engine's own interpolation and broadcast loops.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.collectors.Start(ctx); err != nil {
		return err
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.run(ctx)
	return nil
}

// Stop halts the interpolation/broadcast loops and the collector set.
func (e *Engine) Stop() error {
	if e.stop != nil {
		close(e.stop)
		<-e.done
	}
	return e.collectors.Stop()
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	interpolate := time.NewTicker(interpolationInterval)
	defer interpolate.Stop()
	broadcastInterval := e.cfg.BroadcastInterval
	if broadcastInterval <= 0 {
		broadcastInterval = 2 * time.Second
	}
	broadcast := time.NewTicker(broadcastInterval)
	defer broadcast.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stop:
			return
		case <-interpolate.C:
			e.interpolateAll(ctx)
		case <-broadcast.C:
			e.broadcastAll(ctx)
		}
	}
}

// interpolateAll recomputes each known location's target vector from its
// current signal bag and eases current toward it by one tick. A location
// seen for the first time starts at current = target — no fade-in from
// neutral.
func (e *Engine) interpolateAll(ctx context.Context) {
	locs, err := e.reg.AllLocations(ctx)
	if err != nil {
		return
	}
	for _, loc := range locs {
		target := ComputeTarget(e.cache.Get(loc.ID))

		e.mu.Lock()
		cur, known := e.current[loc.ID]
		if !known {
			e.current[loc.ID] = target
		} else {
			e.current[loc.ID] = Step(cur, target)
		}
		e.mu.Unlock()
	}
}

// broadcastAll fans a context:mood frame out to every connected screen at
// each known location. Fire-and-forget: a screen that misses a tick
// catches up on the next one.
func (e *Engine) broadcastAll(ctx context.Context) {
	if e.bus == nil {
		return
	}
	e.mu.RLock()
	snapshot := make(map[string]models.MoodVector, len(e.current))
	for id, v := range e.current {
		snapshot[id] = v
	}
	e.mu.RUnlock()

	now := time.Now().UnixMilli()
	for locationID, vector := range snapshot {
		ids, err := e.reg.ScreenIDsAtLocation(ctx, locationID)
		if err != nil || len(ids) == 0 {
			continue
		}
		e.bus.Fanout(ids, screenbus.ServerMessage{
			Type: screenbus.ServerMsgContextMood,
			Data: map[string]interface{}{
				"locationId": locationID,
				"mood":       vector,
				"signals":    e.cache.Get(locationID),
				"timestamp":  now,
			},
		})
	}
}
