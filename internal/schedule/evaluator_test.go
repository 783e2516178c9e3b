// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/database"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/screenbus"
)

var testDBSemaphore = make(chan struct{}, 1)

type fixture struct {
	reg      *registry.Registry
	eval     *Evaluator
	clientID string
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reg := registry.New(db, config.RegistryConfig{OfflineThreshold: 90 * time.Second})
	bus := screenbus.NewHub(config.ScreenbusConfig{OutboundQueueSize: 8}, reg)
	reg.AttachBus(bus)

	ctx := context.Background()
	client, err := reg.CreateClient(ctx, models.Client{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)

	eval := New(reg, config.ScheduleConfig{EvaluationInterval: time.Minute, MutationDebounce: 5 * time.Second})
	return &fixture{reg: reg, eval: eval, clientID: client.ID}
}

func (f *fixture) playlist(t *testing.T, name string) models.Playlist {
	t.Helper()
	p, err := f.reg.CreatePlaylist(context.Background(), f.clientID, models.Playlist{
		Name:  name,
		Items: []models.PlaylistItem{{ContentType: models.ContentTypeWidget, Widget: "X", Duration: 10}},
	})
	require.NoError(t, err)
	return p
}

func allDays() []int { return []int{0, 1, 2, 3, 4, 5, 6} }

func TestMatchesNow_RespectsEnabledWeekdayAndTimeWindow(t *testing.T) {
	now := time.Date(2026, 7, 30, 14, 30, 0, 0, time.UTC) // Thursday

	assert.True(t, matchesNow(models.Schedule{Enabled: true, Days: allDays(), StartTime: "09:00", EndTime: "17:00"}, now))
	assert.False(t, matchesNow(models.Schedule{Enabled: false, Days: allDays(), StartTime: "09:00", EndTime: "17:00"}, now))
	assert.False(t, matchesNow(models.Schedule{Enabled: true, Days: []int{1}, StartTime: "09:00", EndTime: "17:00"}, now)) // Monday only
	assert.False(t, matchesNow(models.Schedule{Enabled: true, Days: allDays(), StartTime: "15:00", EndTime: "17:00"}, now))
}

func TestEvaluator_HighestPriorityWins(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	low := f.playlist(t, "low")
	high := f.playlist(t, "high")

	_, err := f.reg.CreateSchedule(ctx, f.clientID, models.Schedule{
		PlaylistID: low.ID, ScreenTarget: "all", Days: allDays(),
		StartTime: "00:00", EndTime: "23:59", Priority: 1, Enabled: true,
	})
	require.NoError(t, err)
	_, err = f.reg.CreateSchedule(ctx, f.clientID, models.Schedule{
		PlaylistID: high.ID, ScreenTarget: "all", Days: allDays(),
		StartTime: "00:00", EndTime: "23:59", Priority: 10, Enabled: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.eval.evaluateClient(ctx, f.clientID, time.Now()))

	applied := f.eval.lastApplied[f.clientID]
	assert.Equal(t, high.ID, applied["all"])
}

func TestEvaluator_ClearsWhenNoScheduleMatches(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.playlist(t, "p")

	sched, err := f.reg.CreateSchedule(ctx, f.clientID, models.Schedule{
		PlaylistID: p.ID, ScreenTarget: "all", Days: allDays(),
		StartTime: "00:00", EndTime: "23:59", Priority: 1, Enabled: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.eval.evaluateClient(ctx, f.clientID, time.Now()))
	require.Equal(t, p.ID, f.eval.lastApplied[f.clientID]["all"])

	_, err = f.reg.UpdateSchedule(ctx, f.clientID, sched.ID, models.Schedule{
		PlaylistID: p.ID, ScreenTarget: "all", Days: allDays(),
		StartTime: "00:00", EndTime: "23:59", Priority: 1, Enabled: false,
	})
	require.NoError(t, err)

	require.NoError(t, f.eval.evaluateClient(ctx, f.clientID, time.Now()))
	_, stillApplied := f.eval.lastApplied[f.clientID]["all"]
	assert.False(t, stillApplied)
}

func TestEvaluator_Touch_TriggersWithinDebounceWindow(t *testing.T) {
	f := setupFixture(t)
	f.eval.cfg.MutationDebounce = 30 * time.Millisecond
	f.eval.cfg.EvaluationInterval = time.Hour
	ctx := context.Background()
	p := f.playlist(t, "p")

	require.NoError(t, f.eval.Start(ctx))
	defer func() { _ = f.eval.Stop() }()

	_, err := f.reg.CreateSchedule(ctx, f.clientID, models.Schedule{
		PlaylistID: p.ID, ScreenTarget: "all", Days: allDays(),
		StartTime: "00:00", EndTime: "23:59", Priority: 1, Enabled: true,
	})
	require.NoError(t, err)
	f.eval.Touch()

	require.Eventually(t, func() bool {
		f.eval.mu.Lock()
		defer f.eval.mu.Unlock()
		applied, ok := f.eval.lastApplied[f.clientID]
		return ok && applied["all"] == p.ID
	}, time.Second, 10*time.Millisecond)
}
