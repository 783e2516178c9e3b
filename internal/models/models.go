// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package models

import "time"

// BootstrapClientSlug is the undeletable bootstrap tenant.
const BootstrapClientSlug = "parkwise"

// Client is a tenant. parkwise is the bootstrap tenant and cannot be deleted.
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	LogoURL   string    `json:"logoUrl,omitempty" db:"logo_url"`
	Branding  Branding  `json:"branding" db:"branding"`
	Contact   string    `json:"contact,omitempty" db:"contact"`
	Plan      string    `json:"plan" db:"plan"` // basic | pro | enterprise
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Branding is the Client.branding JSON blob.
type Branding struct {
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	AccentColor    string `json:"accentColor,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
	Theme          string `json:"theme,omitempty"`
}

// Location is a physical site belonging to exactly one client.
type Location struct {
	ID        string         `json:"id" db:"id"`
	ClientID  string         `json:"clientId" db:"client_id"`
	Name      string         `json:"name" db:"name"`
	Address   string         `json:"address,omitempty" db:"address"`
	Lat       *float64       `json:"lat,omitempty" db:"lat"`
	Lon       *float64       `json:"lon,omitempty" db:"lon"`
	Timezone  string         `json:"timezone" db:"timezone"` // IANA zone name
	Config    LocationConfig `json:"config" db:"config"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// LocationConfig is the Location.config JSON blob.
type LocationConfig struct {
	Capacity        int              `json:"capacity,omitempty"`
	Features        []string         `json:"features,omitempty"`
	Rates           []string         `json:"rates,omitempty"`
	Rules           []string         `json:"rules,omitempty"`
	Contact         string           `json:"contact,omitempty"`
	OperatingHours  *OperatingHours  `json:"operatingHours,omitempty"`
}

// OperatingHours is a location's daily open/close window.
type OperatingHours struct {
	Open  string `json:"open"`  // "HH:MM"
	Close string `json:"close"` // "HH:MM"
}

// Screen statuses.
const (
	ScreenStatusOnline  = "online"
	ScreenStatusOffline = "offline"
)

// Screen modes.
const (
	ScreenModeSignage     = "signage"
	ScreenModeInteractive = "interactive"
)

// Screen is a self-registering signage player.
type Screen struct {
	ID          string          `json:"id" db:"id"`
	ClientID    string          `json:"clientId" db:"client_id"`
	Name        string          `json:"name" db:"name"`
	GroupID     string          `json:"groupId,omitempty" db:"group_id"`
	LocationID  *string         `json:"locationId,omitempty" db:"location_id"`
	SyncGroupID *string         `json:"syncGroupId,omitempty" db:"sync_group_id"`
	Type        string          `json:"type,omitempty" db:"type"`
	Status      string          `json:"status" db:"status"`
	LastSeen    int64           `json:"lastSeen" db:"last_seen"` // epoch ms
	Platform    string          `json:"platform,omitempty" db:"platform"`
	Resolution  string          `json:"resolution,omitempty" db:"resolution"`
	Orientation string          `json:"orientation,omitempty" db:"orientation"`
	Capabilities ScreenCapabilities `json:"capabilities" db:"capabilities"`
	Config      ScreenConfig    `json:"config" db:"config"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Runtime-only fields, never persisted: populated from the Connected-
	// Screen Map and Screen Modes Map by the registry before serialization.
	CurrentMode string `json:"currentMode" db:"-"`
	Connected   bool   `json:"connected" db:"-"`
}

// ScreenCapabilities is the Screen.capabilities JSON blob, opaque to the
// server beyond what player:register reports.
type ScreenCapabilities map[string]interface{}

// ScreenConfig is the Screen.config JSON blob, opaque to the server.
type ScreenConfig map[string]interface{}

// Playlist content item kinds.
const (
	ContentTypeVideo    = "video"
	ContentTypeTemplate = "template"
	ContentTypeWidget   = "widget"
	ContentTypeURL      = "url"
)

// Playlist transitions.
const (
	TransitionFade  = "fade"
	TransitionSlide = "slide"
	TransitionNone  = "none"
)

// PlaylistItem is one ordered entry in a Playlist.
type PlaylistItem struct {
	ContentType string                 `json:"contentType"`
	ContentID   string                 `json:"contentId,omitempty"`
	URL         string                 `json:"url,omitempty"`
	Widget      string                 `json:"widget,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"`
	Duration    int                    `json:"duration"` // seconds, 5..600
	DisplayName string                 `json:"displayName,omitempty"`
}

// Playlist is an ordered content sequence a screen can play.
type Playlist struct {
	ID          string         `json:"id" db:"id"`
	ClientID    string         `json:"clientId" db:"client_id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description,omitempty" db:"description"`
	Items       []PlaylistItem `json:"items" db:"items"`
	Loop        bool           `json:"loop" db:"loop"`
	Transition  string         `json:"transition" db:"transition"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// ScreenTargetAll is the literal screenTarget value meaning every screen for
// the client.
const ScreenTargetAll = "all"

// Schedule binds a playlist to a screen target for a time/day window.
type Schedule struct {
	ID           string    `json:"id" db:"id"`
	ClientID     string    `json:"clientId" db:"client_id"`
	PlaylistID   string    `json:"playlistId" db:"playlist_id"`
	ScreenTarget string    `json:"screenTarget" db:"screen_target"` // "all" | screen id | group id
	StartTime    string    `json:"startTime" db:"start_time"`       // "HH:MM"
	EndTime      string    `json:"endTime" db:"end_time"`           // "HH:MM"
	Days         []int     `json:"days" db:"days"`                  // subset of 0..6, 0=Sunday
	Priority     int       `json:"priority" db:"priority"`          // higher wins
	Enabled      bool      `json:"enabled" db:"enabled"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Sync group modes.
const (
	SyncModeMirror        = "mirror"
	SyncModeComplementary = "complementary"
	SyncModeSpan          = "span"
)

// SyncGroup is a set of screens driven together.
type SyncGroup struct {
	ID             string         `json:"id" db:"id"`
	ClientID       string         `json:"clientId" db:"client_id"`
	Name           string         `json:"name" db:"name"`
	Mode           string         `json:"mode" db:"mode"`
	PlaylistID     *string        `json:"playlistId,omitempty" db:"playlist_id"`
	LeaderScreenID *string        `json:"leaderScreenId,omitempty" db:"leader_screen_id"`
	Config         map[string]interface{} `json:"config" db:"config"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// Announcement priorities.
const (
	AnnouncementPriorityNormal = "normal"
	AnnouncementPriorityHigh   = "high"
	AnnouncementPriorityUrgent = "urgent"
)

// Announcement is a location-scoped or global banner message.
type Announcement struct {
	ID         string    `json:"id" db:"id"`
	ClientID   string    `json:"clientId" db:"client_id"`
	LocationID *string   `json:"locationId,omitempty" db:"location_id"` // nil = global
	Title      string    `json:"title" db:"title"`
	Message    string    `json:"message" db:"message"`
	Icon       string    `json:"icon,omitempty" db:"icon"`
	Priority   string    `json:"priority" db:"priority"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Setting is a process-wide key/value configuration pair.
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Well-known setting keys with server-side defaults.
const (
	SettingOfflineThresholdMinutes = "offline_threshold_minutes"
	SettingAlertAutoExpireMS       = "alert_auto_expire_ms"
	SettingDefaultTransition       = "default_transition"
)

// Envelope message types pushed to screens.
const (
	EnvelopeTypeURL      = "url"
	EnvelopeTypeMedia    = "media"
	EnvelopeTypeWidget   = "widget"
	EnvelopeTypePlaylist = "playlist"
	EnvelopeTypeAlert    = "alert"
	EnvelopeTypeClear    = "clear"
	EnvelopeTypeMode     = "mode"
	EnvelopeTypeReload   = "reload"
)

// Alert levels.
const (
	AlertLevelInfo  = "info"
	AlertLevelWarn  = "warn"
	AlertLevelError = "error"
)

// Envelope is the message every push carries to one or more screens.
type Envelope struct {
	Timestamp int64                  `json:"timestamp"` // epoch ms
	Source    string                 `json:"source"`    // dispatching subsystem
	Type      string                 `json:"type"`
	Content   map[string]interface{} `json:"content"`
	Level     string                 `json:"level,omitempty"`    // alerts only
	Duration  int64                  `json:"duration,omitempty"` // alerts only, ms
}

// MoodVector is the Context Engine's seven-dimensional unit-interval
// ambient-context description for a location.
type MoodVector struct {
	Energy     float64 `json:"energy"`
	Warmth     float64 `json:"warmth"`
	Urgency    float64 `json:"urgency"`
	Density    float64 `json:"density"`
	Tempo      float64 `json:"tempo"`
	Brightness float64 `json:"brightness"`
	Formality  float64 `json:"formality"`
}

// DefaultMoodVector is all fields at 0.5 except urgency=0 and density=0.3.
func DefaultMoodVector() MoodVector {
	return MoodVector{
		Energy:     0.5,
		Warmth:     0.5,
		Urgency:    0,
		Density:    0.3,
		Tempo:      0.5,
		Brightness: 0.5,
		Formality:  0.5,
	}
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// Clamp constrains every component of v to [0,1], returning the result.
func (v MoodVector) Clamp() MoodVector {
	return MoodVector{
		Energy:     clamp01(v.Energy),
		Warmth:     clamp01(v.Warmth),
		Urgency:    clamp01(v.Urgency),
		Density:    clamp01(v.Density),
		Tempo:      clamp01(v.Tempo),
		Brightness: clamp01(v.Brightness),
		Formality:  clamp01(v.Formality),
	}
}
