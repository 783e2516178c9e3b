// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package screenbus

import "github.com/opensignage/cartograph/internal/models"

// Server -> Screen message types for the screen-facing event channel.
const (
	ServerMsgContent        = "content"
	ServerMsgSyncTick       = "sync:tick"
	ServerMsgSyncSeek       = "sync:seek"
	ServerMsgSyncState      = "sync:state"
	ServerMsgCommandReload  = "command:reload"
	ServerMsgCommandClear   = "command:clear"
	ServerMsgCommandID      = "command:identify"
	ServerMsgCommandShot    = "command:screenshot"
	ServerMsgCommandMode    = "command:mode"
	ServerMsgContextMood    = "context:mood"
	ServerMsgScreensUpdate  = "screens:update"
	ServerMsgScreensModeUpd = "screens:mode-update"
)

// Screen -> Server message types.
const (
	ClientMsgRegister           = "player:register"
	ClientMsgHeartbeat          = "player:heartbeat"
	ClientMsgReady              = "player:ready"
	ClientMsgSyncAck            = "sync:ack"
	ClientMsgScreenshotResponse = "screenshot:response"
)

// ServerMessage is the outbound envelope written to a screen's connection.
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ClientMessage is the generic inbound frame; Data is re-decoded into the
// concrete payload type once Type is known.
type ClientMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// RegisterPayload is the player:register message body.
type RegisterPayload struct {
	ScreenID     string                    `json:"screenId"`
	Name         string                    `json:"name"`
	GroupID      string                    `json:"groupId"`
	LocationID   string                    `json:"locationId"`
	ClientID     string                    `json:"clientId"`
	Platform     string                    `json:"platform"`
	Resolution   string                    `json:"resolution"`
	Orientation  string                    `json:"orientation"`
	Capabilities models.ScreenCapabilities `json:"capabilities"`
}

// HeartbeatPayload is the player:heartbeat message body.
type HeartbeatPayload struct {
	ScreenID     string `json:"screenId"`
	Status       string `json:"status"`
	CurrentItem  string `json:"currentItem,omitempty"`
	BufferHealth *float64 `json:"bufferHealth,omitempty"`
	Screenshot   []byte `json:"screenshot,omitempty"`
}

// ReadyPayload is the player:ready message body.
type ReadyPayload struct {
	ScreenID string `json:"screenId"`
	GroupID  string `json:"groupId,omitempty"`
}

// SyncAckPayload is the sync:ack message body.
type SyncAckPayload struct {
	ScreenID  string `json:"screenId"`
	GroupID   string `json:"groupId"`
	ItemIndex int    `json:"itemIndex"`
}

// ScreenshotResponsePayload is the screenshot:response message body.
type ScreenshotResponsePayload struct {
	ScreenID string `json:"screenId"`
	Image    []byte `json:"image"`
}

// InboundHandler receives decoded screen-originated messages. Implemented by
// internal/registry so screenbus never imports it.
type InboundHandler interface {
	HandleRegister(RegisterPayload)
	HandleHeartbeat(HeartbeatPayload)
	HandleReady(ReadyPayload)
	HandleSyncAck(SyncAckPayload)
	HandleScreenshot(ScreenshotResponsePayload)
	// HandleDisconnect is called when a screen's connection is unregistered,
	// whether by network failure or explicit close.
	HandleDisconnect(screenID string)
}
