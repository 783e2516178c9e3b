// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"

	"github.com/opensignage/cartograph/internal/models"
)

// contextResponse is the /api/context payload: the interpolated Mood
// Vector plus the raw signal bag it was derived from.
type contextResponse struct {
	Mood    models.MoodVector `json:"mood"`
	Signals contextSignals    `json:"signals"`
}

// contextSignals is a flattened, JSON-friendly view of mood.Signals.
type contextSignals struct {
	WeatherTempC   float64 `json:"weatherTempC"`
	WeatherCond    string  `json:"weatherCondition"`
	OccupancyLevel float64 `json:"occupancyLevel"`
	SecurityLevel  int     `json:"securityLevel"`
	AudioLevel     float64 `json:"audioLevel"`
	PeopleCount    int     `json:"peopleCount"`
	TimePeriod     string  `json:"timePeriod"`
	TimeSeason     string  `json:"timeSeason"`
	Weekend        bool    `json:"weekend"`
}

// GetContext handles GET /api/context and GET /api/context/:locationId.
// An absent locationId returns the zero-location fallback (the default
// Mood Vector with an empty signal bag).
func (h *Handler) GetContext(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	mood, signals := h.mood.Current(urlParam(r, "locationId"))
	rw.Success(contextResponse{
		Mood: mood,
		Signals: contextSignals{
			WeatherTempC:   signals.Weather.TempC,
			WeatherCond:    signals.Weather.Condition,
			OccupancyLevel: signals.Occupancy.Level,
			SecurityLevel:  signals.Security.Level,
			AudioLevel:     signals.Audio.Level,
			PeopleCount:    signals.PeopleCount.Count,
			TimePeriod:     signals.Time.Period,
			TimeSeason:     signals.Time.Season,
			Weekend:        signals.Time.Weekend,
		},
	})
}
