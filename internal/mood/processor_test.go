// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package mood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opensignage/cartograph/internal/models"
)

func TestComputeTarget_SecurityOverride_Level3SaturatesUrgency(t *testing.T) {
	s := Signals{
		Time:     TimeSignal{Period: PeriodMidday},
		Security: SecurityReading{Level: 3},
	}
	target := ComputeTarget(s)

	assert.Equal(t, 1.0, target.Urgency)
	assert.Equal(t, 0.0, target.Warmth)
	assert.Equal(t, 1.0, target.Energy)
	assert.Equal(t, 1.0, target.Tempo)
	assert.Equal(t, 1.0, target.Brightness)
	assert.Equal(t, 1.0, target.Formality)
}

func TestComputeTarget_SecurityOverride_IgnoresOtherSignals(t *testing.T) {
	calm := Signals{Time: TimeSignal{Period: PeriodNight}, Security: SecurityReading{Level: 0}}
	alarmed := Signals{Time: TimeSignal{Period: PeriodNight}, Security: SecurityReading{Level: 3}}

	calmTarget := ComputeTarget(calm)
	alarmedTarget := ComputeTarget(alarmed)

	assert.Less(t, calmTarget.Urgency, alarmedTarget.Urgency)
	assert.Greater(t, calmTarget.Warmth, alarmedTarget.Warmth)
}

func TestComputeTarget_ClampsToUnitInterval(t *testing.T) {
	s := Signals{
		Time:        TimeSignal{Period: PeriodMidday},
		Occupancy:   OccupancyReading{Level: 1.0},
		PeopleCount: PeopleCountReading{Count: 40},
		Audio:       AudioReading{Level: 1.0, SpikeFreq: 1.0},
	}
	target := ComputeTarget(s)

	assertInUnitInterval(t, target)
}

func assertInUnitInterval(t *testing.T, v models.MoodVector) {
	t.Helper()
	for _, f := range []float64{v.Energy, v.Warmth, v.Urgency, v.Density, v.Tempo, v.Brightness, v.Formality} {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)
	}
}

// TestStep_MonotonicConvergence verifies a constant target converges
// monotonically per component across many ticks, with no overshoot.
func TestStep_MonotonicConvergence(t *testing.T) {
	current := models.MoodVector{Energy: 0.1, Warmth: 0.9, Urgency: 0, Density: 0.3, Tempo: 0.2, Brightness: 0.1, Formality: 0.8}
	target := models.MoodVector{Energy: 0.8, Warmth: 0.2, Urgency: 1, Density: 0.3, Tempo: 0.9, Brightness: 0.95, Formality: 0.1}

	prev := current
	for i := 0; i < 200; i++ {
		next := Step(prev, target)

		assert.GreaterOrEqual(t, next.Energy, prev.Energy)
		assert.LessOrEqual(t, next.Energy, target.Energy)
		assert.LessOrEqual(t, next.Warmth, prev.Warmth)
		assert.GreaterOrEqual(t, next.Warmth, target.Warmth)
		assert.GreaterOrEqual(t, next.Urgency, prev.Urgency)
		assert.LessOrEqual(t, next.Urgency, target.Urgency)
		assert.GreaterOrEqual(t, next.Tempo, prev.Tempo)
		assert.LessOrEqual(t, next.Tempo, target.Tempo)

		prev = next
	}

	assert.InDelta(t, target.Energy, prev.Energy, 0.01)
	assert.InDelta(t, target.Urgency, prev.Urgency, 0.01)
}

func TestDeriveTimeSignal_PeriodsAndSeason(t *testing.T) {
	night := DeriveTimeSignal(time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, PeriodNight, night.Period)
	assert.Equal(t, SeasonWinter, night.Season)

	midday := DeriveTimeSignal(time.Date(2026, 7, 15, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, PeriodMidday, midday.Period)
	assert.Equal(t, SeasonSummer, midday.Season)

	saturday := DeriveTimeSignal(time.Date(2026, 7, 18, 10, 0, 0, 0, time.UTC))
	assert.True(t, saturday.Weekend)
}

func TestCache_OccupancyFallbackAveragesKnownLocations(t *testing.T) {
	c := NewCache()
	c.SetOccupancy("loc-a", OccupancyReading{Level: 0.2})
	c.SetOccupancy("loc-b", OccupancyReading{Level: 0.8})

	assert.InDelta(t, 0.5, c.OccupancyFallback(), 0.0001)
}
