// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package mood

import (
	"time"

	"github.com/opensignage/cartograph/internal/models"
)

// Time-of-day periods and seasons.
const (
	PeriodDawn       = "dawn"
	PeriodMorning    = "morning"
	PeriodMidday     = "midday"
	PeriodAfternoon  = "afternoon"
	PeriodGoldenHour = "golden_hour"
	PeriodEvening    = "evening"
	PeriodNight      = "night"

	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonAutumn = "autumn"
	SeasonWinter = "winter"
)

// DeriveTimeSignal computes period/season/weekend from a local (already
// location-zone-adjusted) instant.
func DeriveTimeSignal(local time.Time) TimeSignal {
	hour := float64(local.Hour()) + float64(local.Minute())/60
	return TimeSignal{
		Period:  periodFor(hour),
		Season:  seasonFor(local.Month()),
		Weekend: local.Weekday() == time.Saturday || local.Weekday() == time.Sunday,
		At:      local,
	}
}

func periodFor(hour float64) string {
	switch {
	case hour < 5:
		return PeriodNight
	case hour < 7:
		return PeriodDawn
	case hour < 11:
		return PeriodMorning
	case hour < 14:
		return PeriodMidday
	case hour < 17:
		return PeriodAfternoon
	case hour < 19:
		return PeriodGoldenHour
	case hour < 22:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

func seasonFor(month time.Month) string {
	switch month {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

var periodBaseline = map[string]models.MoodVector{
	PeriodNight:      {Brightness: 0.15, Energy: 0.15, Tempo: 0.15},
	PeriodDawn:       {Brightness: 0.3, Energy: 0.3, Tempo: 0.3},
	PeriodMorning:    {Brightness: 0.6, Energy: 0.6, Tempo: 0.55},
	PeriodMidday:     {Brightness: 0.8, Energy: 0.65, Tempo: 0.6},
	PeriodAfternoon:  {Brightness: 0.7, Energy: 0.55, Tempo: 0.5},
	PeriodGoldenHour: {Brightness: 0.5, Energy: 0.5, Tempo: 0.45},
	PeriodEvening:    {Brightness: 0.4, Energy: 0.45, Tempo: 0.45},
}

// ComputeTarget folds a location's signal bag into a target Mood Vector,
// additively and order-independently, then clamps every component to
// [0,1].
func ComputeTarget(s Signals) models.MoodVector {
	v := models.DefaultMoodVector()

	if base, ok := periodBaseline[s.Time.Period]; ok {
		v.Brightness = base.Brightness
		v.Energy = base.Energy
		v.Tempo = base.Tempo
	}
	if s.Time.Weekend {
		v.Formality -= 0.15
		v.Energy -= 0.05
	}

	switch {
	case s.Weather.TempC > 25:
		v.Warmth = max(v.Warmth, 0.9) + (s.Weather.TempC-25)*0.01
		v.Energy -= 0.1
	case s.Weather.TempC < 5 && s.Weather.TempC != 0:
		v.Warmth += 0.2
	}
	if s.Weather.Condition != "" {
		switch s.Weather.Condition {
		case "sunny", "clear":
			v.Brightness += 0.1
			v.Energy += 0.05
		case "rain", "storm":
			v.Brightness -= 0.15
			v.Tempo -= 0.05
			v.Density += 0.05
		case "overcast", "cloudy":
			v.Brightness -= 0.05
		}
	}

	v.Energy += s.Audio.Level * 0.3
	v.Tempo += s.Audio.SpikeFreq * 0.3
	if s.Audio.Level > 0.7 && s.Audio.SpikeFreq > 0.5 {
		v.Density += 0.15
	}

	switch {
	case s.Occupancy.Level < 0.2:
		v.Density -= 0.15
	case s.Occupancy.Level > 0.9:
		v.Density += 0.2
		v.Formality += 0.1
		v.Urgency += 0.1
	case s.Occupancy.Level > 0.7:
		v.Density += 0.2
		v.Formality += 0.1
	}

	if s.PeopleCount.Count > 0 {
		n := float64(s.PeopleCount.Count) / 20
		if n > 1 {
			n = 1
		}
		v.Density += 0.15 * n
		v.Energy += 0.10 * n
	}

	applySecurityOverride(&v, s.Security.Level)

	return v.Clamp()
}

// applySecurityOverride pins fields to emergency values at security levels
// 2-3, and additionally saturates urgency/energy/tempo at level 3.
func applySecurityOverride(v *models.MoodVector, level int) {
	switch {
	case level >= 3:
		v.Warmth, v.Brightness, v.Energy, v.Tempo, v.Formality = 0, 1, 1, 1, 1
		v.Urgency = 1
	case level == 2:
		v.Warmth, v.Brightness, v.Energy, v.Tempo, v.Formality = 0.1, 0.9, 0.8, 0.8, 0.9
		v.Urgency = max(v.Urgency, 0.6)
	}
}

