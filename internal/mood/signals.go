// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package mood

import (
	"sync"
	"time"
)

// WeatherReading is the weather collector's latest HTTP-polled sample.
type WeatherReading struct {
	TempC     float64
	Condition string
	Fetched   time.Time
}

// OccupancyReading is a location's crowd-density estimate in [0,1].
type OccupancyReading struct {
	Level   float64
	Fetched time.Time
	Stale   bool // true when using the cross-location fallback average
}

// SecurityReading is a location's alert level, 0 (normal) through 3
// (highest).
type SecurityReading struct {
	Level   int
	Fetched time.Time
}

// AudioReading is the audio collector's sliding-60s-window summary,
// recomputed from AudioSample pushes by Collectors.recordAudioSample.
type AudioReading struct {
	Level     float64 // average loudness, [0,1]
	SpikeFreq float64 // fraction of the window that was a loud spike, [0,1]
	Updated   time.Time
}

// AudioSample is one raw audio measurement pushed by an AudioReading
// StreamSource. Collectors folds a 60s trailing window of samples into an
// AudioReading before storing it.
type AudioSample struct {
	Level float64 // instantaneous loudness, [0,1]
	Spike bool    // true if this sample crossed the source's spike threshold
}

// PeopleCountReading is the most recent streamed people-count sample.
type PeopleCountReading struct {
	Count   int
	Updated time.Time
}

// TimeSignal is the always-available derived time-of-day/season reading.
type TimeSignal struct {
	Period  string // dawn, morning, midday, afternoon, golden_hour, evening, night
	Season  string // spring, summer, autumn, winter
	Weekend bool
	At      time.Time
}

// CalendarReading is currently always empty; reserved for a future
// calendar-feed collector.
type CalendarReading struct{}

// Signals is the full signal bag for one location, as read by the
// processor.
type Signals struct {
	Weather     WeatherReading
	Occupancy   OccupancyReading
	Security    SecurityReading
	Audio       AudioReading
	PeopleCount PeopleCountReading
	Time        TimeSignal
	Calendar    CalendarReading
}

// Cache is the Signals Cache: one RWMutex guards every location's entry;
// writes are serialized and reads may run concurrently with each other.
// A single lock is sufficient here because
// individual collector polls are infrequent (tens of seconds to minutes)
// relative to lock hold time (a map write).
type Cache struct {
	mu          sync.RWMutex
	byLocation  map[string]*Signals
	occupancySum   float64
	occupancyCount int
	// occupancyCounted marks the locations whose current reading is
	// included in occupancySum/occupancyCount.
	occupancyCounted map[string]bool
}

// NewCache constructs an empty Signals Cache.
func NewCache() *Cache {
	return &Cache{byLocation: make(map[string]*Signals)}
}

func (c *Cache) entry(locationID string) *Signals {
	s, ok := c.byLocation[locationID]
	if !ok {
		s = &Signals{Occupancy: OccupancyReading{Level: 0.3}}
		c.byLocation[locationID] = s
	}
	return s
}

// Get returns a copy of locationID's current signal bag. For a location
// with nothing observed yet every field is zero-valued except
// Occupancy.Level, which starts at 0.3.
func (c *Cache) Get(locationID string) Signals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.byLocation[locationID]; ok {
		return *s
	}
	return Signals{Occupancy: OccupancyReading{Level: 0.3}}
}

// Locations returns every location id the cache has an entry for.
func (c *Cache) Locations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.byLocation))
	for id := range c.byLocation {
		out = append(out, id)
	}
	return out
}

// SetWeather records a fresh weather reading for locationID.
func (c *Cache) SetWeather(locationID string, r WeatherReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(locationID).Weather = r
}

// SetOccupancy records a fresh occupancy reading and updates the global
// average used as the fallback for locations whose poll is failing.
func (c *Cache) SetOccupancy(locationID string, r OccupancyReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.occupancyCounted == nil {
		c.occupancyCounted = make(map[string]bool)
	}
	if c.occupancyCounted[locationID] {
		c.occupancySum -= c.entry(locationID).Occupancy.Level
		c.occupancyCount--
	}
	c.entry(locationID).Occupancy = r
	c.occupancyCounted[locationID] = !r.Stale
	if !r.Stale {
		c.occupancySum += r.Level
		c.occupancyCount++
	}
}

// OccupancyFallback returns the cross-location average occupancy, for a
// collector whose own poll failed and has no prior reading of its own.
func (c *Cache) OccupancyFallback() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.occupancyCount == 0 {
		return 0.3
	}
	return c.occupancySum / float64(c.occupancyCount)
}

// SetSecurity records a fresh security-level reading for locationID.
func (c *Cache) SetSecurity(locationID string, r SecurityReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(locationID).Security = r
}

// SetAudio records a fresh audio-window summary for locationID.
func (c *Cache) SetAudio(locationID string, r AudioReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(locationID).Audio = r
}

// SetPeopleCount records a fresh people-count sample for locationID.
func (c *Cache) SetPeopleCount(locationID string, r PeopleCountReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(locationID).PeopleCount = r
}

// SetTime records the derived time-of-day signal for locationID.
func (c *Cache) SetTime(locationID string, r TimeSignal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(locationID).Time = r
}
