// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package mood

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	cachepkg "github.com/opensignage/cartograph/internal/cache"
	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/metrics"
	"github.com/opensignage/cartograph/internal/models"
)

// audioWindow is 60s, divided into 12 5s buckets.
const (
	audioWindowSize    = 60 * time.Second
	audioWindowBuckets = 12
	audioWindowMaxKeys = 1024
)

// StreamSource yields a location's push-style readings (audio, people
// count) until its channel closes, at which point Collectors reconnects
// it with backoff. A nil source leaves that location's signal at its
// last (or zero) value — no sensor feed configured.
type StreamSource[T any] func(ctx context.Context) (<-chan T, error)

// LocationLister resolves the set of locations collectors should poll;
// satisfied by registry.Registry.AllLocations.
type LocationLister func(ctx context.Context) ([]models.Location, error)

// Collectors runs the weather, occupancy, security, audio, people-count and
// time collectors, writing readings into a shared Cache. No calendar
// collector runs, so Signals.Calendar stays empty.
type Collectors struct {
	cache      *Cache
	cfg        config.MoodConfig
	locations  LocationLister
	httpClient *http.Client

	weatherCB   *gobreaker.CircuitBreaker[[]byte]
	occupancyCB *gobreaker.CircuitBreaker[[]byte]
	securityCB  *gobreaker.CircuitBreaker[[]byte]

	// audioSamples/audioSpikes/audioLevels are per-location 60s sliding
	// windows recordAudioSample folds into an AudioReading on every push.
	audioSamples *cachepkg.SlidingWindowStore
	audioSpikes  *cachepkg.SlidingWindowStore
	audioLevels  *cachepkg.SlidingWindowStore

	mu            sync.Mutex
	audioSources  map[string]StreamSource[AudioSample]
	peopleSources map[string]StreamSource[PeopleCountReading]

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewCollectors constructs the collector set. locations is polled at the
// start of every cycle so newly added locations are picked up without a
// restart.
func NewCollectors(cache *Cache, cfg config.MoodConfig, locations LocationLister) *Collectors {
	return &Collectors{
		cache:         cache,
		cfg:           cfg,
		locations:     locations,
		httpClient:    &http.Client{Timeout: cfg.CollectorHTTPTimeout},
		weatherCB:     newPollBreaker("mood-weather"),
		occupancyCB:   newPollBreaker("mood-occupancy"),
		securityCB:    newPollBreaker("mood-security"),
		audioSamples:  cachepkg.NewSlidingWindowStore(audioWindowSize, audioWindowBuckets, audioWindowMaxKeys),
		audioSpikes:   cachepkg.NewSlidingWindowStore(audioWindowSize, audioWindowBuckets, audioWindowMaxKeys),
		audioLevels:   cachepkg.NewSlidingWindowStore(audioWindowSize, audioWindowBuckets, audioWindowMaxKeys),
		audioSources:  make(map[string]StreamSource[AudioSample]),
		peopleSources: make(map[string]StreamSource[PeopleCountReading]),
	}
}

func newPollBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(n string, from, to gobreaker.State) {
			metrics.CircuitBreakerTransitions.WithLabelValues(n, breakerStateName(from), breakerStateName(to)).Inc()
			metrics.CircuitBreakerState.WithLabelValues(n).Set(breakerStateValue(to))
		},
	})
}

func breakerStateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// SetAudioSource registers (or clears, passing nil) the audio stream for a
// location. Safe to call after Start.
func (c *Collectors) SetAudioSource(locationID string, src StreamSource[AudioSample]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audioSources[locationID] = src
}

// SetPeopleCountSource registers (or clears) the people-count stream for a
// location. Safe to call after Start.
func (c *Collectors) SetPeopleCountSource(locationID string, src StreamSource[PeopleCountReading]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peopleSources[locationID] = src
}

// Start launches every collector loop as its own goroutine.
func (c *Collectors) Start(ctx context.Context) error {
	c.stop = make(chan struct{})
	loops := []func(context.Context){
		c.timeLoop,
		c.weatherLoop,
		c.occupancyLoop,
		c.securityLoop,
		c.audioLoop,
		c.peopleCountLoop,
	}
	for _, loop := range loops {
		c.wg.Add(1)
		go func(l func(context.Context)) {
			defer c.wg.Done()
			l(ctx)
		}(loop)
	}
	return nil
}

// Stop halts every collector loop and waits for them to exit.
func (c *Collectors) Stop() error {
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	c.wg.Wait()
	return nil
}

func (c *Collectors) currentLocations(ctx context.Context) []models.Location {
	locs, err := c.locations(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("mood: failed to list locations")
		return nil
	}
	return locs
}

// timeLoop recomputes the always-available time-of-day/season signal for
// every location, localized to its own timezone, every 60s.
func (c *Collectors) timeLoop(ctx context.Context) {
	c.tick(ctx, 60*time.Second, func(ctx context.Context) {
		for _, loc := range c.currentLocations(ctx) {
			now := time.Now()
			if tz, err := time.LoadLocation(loc.Timezone); err == nil {
				now = now.In(tz)
			}
			c.cache.SetTime(loc.ID, DeriveTimeSignal(now))
		}
	})
}

// weatherLoop polls the weather HTTP source every WeatherPollInterval,
// keeping the stale reading (and logging) on failure.
func (c *Collectors) weatherLoop(ctx context.Context) {
	c.tick(ctx, orDefault(c.cfg.WeatherPollInterval, 10*time.Minute), func(ctx context.Context) {
		if c.cfg.WeatherAPIURL == "" {
			return
		}
		for _, loc := range c.currentLocations(ctx) {
			body, err := c.pollWithBreaker(ctx, c.weatherCB, c.cfg.WeatherAPIURL, loc)
			if err != nil {
				logging.Warn().Err(err).Str("location_id", loc.ID).Msg("mood: weather poll failed, keeping stale reading")
				continue
			}
			var resp struct {
				TempC     float64 `json:"temp_c"`
				Condition string  `json:"condition"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				logging.Warn().Err(err).Msg("mood: weather response decode failed")
				continue
			}
			c.cache.SetWeather(loc.ID, WeatherReading{TempC: resp.TempC, Condition: resp.Condition, Fetched: time.Now()})
		}
	})
}

// occupancyLoop polls the occupancy HTTP source every OccupancyPollInterval;
// on failure it falls back to the cross-location average.
func (c *Collectors) occupancyLoop(ctx context.Context) {
	c.tick(ctx, orDefault(c.cfg.OccupancyPollInterval, 60*time.Second), func(ctx context.Context) {
		if c.cfg.OccupancyAPIURL == "" {
			return
		}
		for _, loc := range c.currentLocations(ctx) {
			body, err := c.pollWithBreaker(ctx, c.occupancyCB, c.cfg.OccupancyAPIURL, loc)
			if err != nil {
				logging.Warn().Err(err).Str("location_id", loc.ID).Msg("mood: occupancy poll failed, using fallback average")
				c.cache.SetOccupancy(loc.ID, OccupancyReading{Level: c.cache.OccupancyFallback(), Stale: true, Fetched: time.Now()})
				continue
			}
			var resp struct {
				Level float64 `json:"level"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				logging.Warn().Err(err).Msg("mood: occupancy response decode failed")
				continue
			}
			c.cache.SetOccupancy(loc.ID, OccupancyReading{Level: resp.Level, Fetched: time.Now()})
		}
	})
}

// securityLoop polls the security-level HTTP source every
// SecurityPollInterval, keeping the last known level on failure.
func (c *Collectors) securityLoop(ctx context.Context) {
	c.tick(ctx, orDefault(c.cfg.SecurityPollInterval, 30*time.Second), func(ctx context.Context) {
		if c.cfg.SecurityAPIURL == "" {
			return
		}
		for _, loc := range c.currentLocations(ctx) {
			body, err := c.pollWithBreaker(ctx, c.securityCB, c.cfg.SecurityAPIURL, loc)
			if err != nil {
				logging.Warn().Err(err).Str("location_id", loc.ID).Msg("mood: security poll failed, keeping last known level")
				continue
			}
			var resp struct {
				Level int `json:"level"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				logging.Warn().Err(err).Msg("mood: security response decode failed")
				continue
			}
			c.cache.SetSecurity(loc.ID, SecurityReading{Level: resp.Level, Fetched: time.Now()})
		}
	})
}

// pollWithBreaker performs a bounded (≤10s) GET of url through the named
// circuit breaker. The location argument is unused: every location polls
// the same url.
func (c *Collectors) pollWithBreaker(ctx context.Context, cb *gobreaker.CircuitBreaker[[]byte], url string, _ models.Location) ([]byte, error) {
	timeout := c.cfg.CollectorHTTPTimeout
	if timeout <= 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	return cb.Execute(func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		buf := make([]byte, 0, 512)
		chunk := make([]byte, 512)
		for {
			n, err := resp.Body.Read(chunk)
			buf = append(buf, chunk[:n]...)
			if err != nil {
				break
			}
		}
		return buf, nil
	})
}

func (c *Collectors) tick(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	fn(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// audioLoop reconnects every registered audio source with capped
// exponential backoff, folding each raw AudioSample into the location's
// 60s sliding window before writing the recomputed AudioReading into the
// cache.
func (c *Collectors) audioLoop(ctx context.Context) {
	streamLoop(ctx, c.stop, func() map[string]StreamSource[AudioSample] {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := make(map[string]StreamSource[AudioSample], len(c.audioSources))
		for k, v := range c.audioSources {
			out[k] = v
		}
		return out
	}, c.recordAudioSample)
}

// recordAudioSample folds one raw sample into locationID's 60s sliding
// window (sample count, spike count, and summed loudness) and republishes
// the recomputed AudioReading summary into the cache.
func (c *Collectors) recordAudioSample(locationID string, s AudioSample) {
	c.audioSamples.Increment(locationID)
	if s.Spike {
		c.audioSpikes.Increment(locationID)
	}
	// Loudness is scaled to an integer so it can ride the same int64-bucket
	// counter the spike/sample counts use.
	c.audioLevels.IncrementBy(locationID, int64(s.Level*1000))

	samples := c.audioSamples.Count(locationID)
	if samples == 0 {
		return
	}
	c.cache.SetAudio(locationID, AudioReading{
		Level:     float64(c.audioLevels.Count(locationID)) / float64(samples) / 1000,
		SpikeFreq: float64(c.audioSpikes.Count(locationID)) / float64(samples),
		Updated:   time.Now(),
	})
}

// peopleCountLoop reconnects every registered people-count source with
// capped exponential backoff, streaming readings straight into the cache.
func (c *Collectors) peopleCountLoop(ctx context.Context) {
	streamLoop(ctx, c.stop, func() map[string]StreamSource[PeopleCountReading] {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := make(map[string]StreamSource[PeopleCountReading], len(c.peopleSources))
		for k, v := range c.peopleSources {
			out[k] = v
		}
		return out
	}, func(locationID string, r PeopleCountReading) { c.cache.SetPeopleCount(locationID, r) })
}

// streamLoop is the generic reconnect-with-backoff driver shared by the
// audio and people-count collectors, which both use the same "push,
// auto-reconnect 30s backoff" failure policy.
func streamLoop[T any](ctx context.Context, stop <-chan struct{}, sources func() map[string]StreamSource[T], onReading func(string, T)) {
	var wg sync.WaitGroup
	started := make(map[string]bool)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		for locationID, src := range sources() {
			if src == nil || started[locationID] {
				continue
			}
			started[locationID] = true
			wg.Add(1)
			go func(locationID string, src StreamSource[T]) {
				defer wg.Done()
				runStreamWithBackoff(ctx, stop, locationID, src, onReading)
			}(locationID, src)
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-stop:
			wg.Wait()
			return
		case <-ticker.C:
		}
	}
}

func runStreamWithBackoff[T any](ctx context.Context, stop <-chan struct{}, locationID string, src StreamSource[T], onReading func(string, T)) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // retry until Stop/ctx cancel

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		ch, err := src(ctx)
		if err != nil {
			wait := bo.NextBackOff()
			logging.Warn().Err(err).Str("location_id", locationID).Dur("retry_in", wait).Msg("mood: stream source connect failed")
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-time.After(wait):
			}
			continue
		}
		bo.Reset()

		for reading := range ch {
			onReading(locationID, reading)
			select {
			case <-stop:
				return
			default:
			}
		}
		// channel closed: source disconnected, loop back and reconnect.
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
