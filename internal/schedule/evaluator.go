// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/registry"
)

// Evaluator is the single-threaded-per-process Schedule Evaluator: every
// tick it recomputes, for each distinct screenTarget across a client's
// enabled schedules, which playlist should currently be applied.
type Evaluator struct {
	reg *registry.Registry
	cfg config.ScheduleConfig

	mu          sync.Mutex
	lastApplied map[string]map[string]string // clientID -> target -> playlistID

	touch chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// New constructs an Evaluator bound to reg.
func New(reg *registry.Registry, cfg config.ScheduleConfig) *Evaluator {
	return &Evaluator{
		reg:         reg,
		cfg:         cfg,
		lastApplied: make(map[string]map[string]string),
		touch:       make(chan struct{}, 1),
	}
}

// Touch requests an out-of-cycle re-evaluation within
// ScheduleConfig.MutationDebounce of the call, coalescing a burst of
// schedule mutations into a single re-run. Non-blocking: callers (the API
// layer's schedule handlers) never wait on the evaluator's loop.
func (e *Evaluator) Touch() {
	select {
	case e.touch <- struct{}{}:
	default:
	}
}

// Start satisfies services.StartStopper, running the evaluator loop until
// Stop is called or ctx is canceled.
func (e *Evaluator) Start(ctx context.Context) error {
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.run(ctx)
	return nil
}

// Stop halts the evaluator loop and waits for it to exit.
func (e *Evaluator) Stop() error {
	if e.stop == nil {
		return nil
	}
	close(e.stop)
	<-e.done
	return nil
}

func (e *Evaluator) run(ctx context.Context) {
	defer close(e.done)

	interval := e.cfg.EvaluationInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	debounceWindow := e.cfg.MutationDebounce
	if debounceWindow <= 0 {
		debounceWindow = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	e.evaluateAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stop:
			return
		case <-ticker.C:
			e.evaluateAll(ctx)
		case <-debounce.C:
			e.evaluateAll(ctx)
		case <-e.touch:
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(debounceWindow)
		}
	}
}

// evaluateAll re-evaluates every client's schedules. A failure for one
// client is logged and does not stop the others.
func (e *Evaluator) evaluateAll(ctx context.Context) {
	clients, err := e.reg.ListClients(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("schedule: failed to list clients")
		return
	}
	now := time.Now()
	for _, c := range clients {
		if err := e.evaluateClient(ctx, c.ID, now); err != nil {
			logging.Error().Err(err).Str("client_id", c.ID).Msg("schedule: evaluation failed")
		}
	}
}

func (e *Evaluator) evaluateClient(ctx context.Context, clientID string, now time.Time) error {
	schedules, err := e.reg.ListEnabledSchedules(ctx, clientID)
	if err != nil {
		return err
	}

	// schedules is already ordered (priority DESC, created_at DESC), so the
	// first match encountered per target wins: highest priority, ties
	// broken by latest createdAt.
	winners := make(map[string]models.Schedule)
	targets := make(map[string]bool)
	for _, s := range schedules {
		targets[s.ScreenTarget] = true
		if _, ok := winners[s.ScreenTarget]; ok {
			continue
		}
		if matchesNow(s, now) {
			winners[s.ScreenTarget] = s
		}
	}

	e.mu.Lock()
	applied, ok := e.lastApplied[clientID]
	if !ok {
		applied = make(map[string]string)
		e.lastApplied[clientID] = applied
	}
	for target := range applied {
		targets[target] = true
	}
	e.mu.Unlock()

	for target := range targets {
		winner, matched := winners[target]

		e.mu.Lock()
		current := applied[target]
		e.mu.Unlock()

		if matched {
			if current == winner.PlaylistID {
				continue
			}
			if _, err := e.reg.Push(ctx, clientID, target, models.Envelope{
				Source: "schedule",
				Type:   models.EnvelopeTypePlaylist,
				Content: map[string]interface{}{
					"playlistId": winner.PlaylistID,
					"scheduleId": winner.ID,
				},
			}); err != nil {
				logging.Error().Err(err).Str("target", target).Msg("schedule: push failed")
				continue
			}
			e.mu.Lock()
			applied[target] = winner.PlaylistID
			e.mu.Unlock()
		} else if current != "" {
			if _, err := e.reg.Clear(ctx, clientID, target); err != nil {
				logging.Error().Err(err).Str("target", target).Msg("schedule: clear failed")
				continue
			}
			e.mu.Lock()
			delete(applied, target)
			e.mu.Unlock()
		}
	}
	return nil
}

// matchesNow reports whether s matches at instant now: enabled,
// weekday(now) in s.Days, and startTime <= HH:MM(now) <= endTime.
// Overnight ranges (startTime > endTime) are not supported by design.
func matchesNow(s models.Schedule, now time.Time) bool {
	if !s.Enabled {
		return false
	}
	weekday := int(now.Weekday()) // time.Sunday == 0, matching Schedule.Days' convention
	if !containsDay(s.Days, weekday) {
		return false
	}
	hhmm := now.Format("15:04")
	return s.StartTime <= hhmm && hhmm <= s.EndTime
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
