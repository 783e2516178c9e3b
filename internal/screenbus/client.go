// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package screenbus

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/opensignage/cartograph/internal/logging"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one screen's live connection, registered in Hub.clients under
// the screenID it reported in its player:register frame.
type Client struct {
	screenID string
	hub      *Hub
	conn     *websocket.Conn
	send     chan ServerMessage
}

// Upgrade promotes an HTTP request to a websocket connection and starts the
// screen's read/write pumps. screenID is taken from the first
// player:register frame the screen sends; until then the connection is
// tracked only by its socket, not yet addressable by Hub.Send.
func Upgrade(hub *Hub, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan ServerMessage, hub.cfg.OutboundQueueSize),
	}

	go c.writePump()
	go c.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		if c.screenID != "" {
			c.hub.unregisterClient(c)
		} else {
			_ = c.conn.Close()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("screenbus: failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Str("screen_id", c.screenID).Msg("screenbus: unexpected close")
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg ClientMessage) {
	handler := c.hub.handler
	if handler == nil {
		return
	}

	switch msg.Type {
	case ClientMsgRegister:
		var p RegisterPayload
		if !decode(msg.Data, &p) {
			return
		}
		c.screenID = p.ScreenID
		c.hub.registerClient(c)
		handler.HandleRegister(p)
	case ClientMsgHeartbeat:
		var p HeartbeatPayload
		if decode(msg.Data, &p) {
			handler.HandleHeartbeat(p)
		}
	case ClientMsgReady:
		var p ReadyPayload
		if decode(msg.Data, &p) {
			handler.HandleReady(p)
		}
	case ClientMsgSyncAck:
		var p SyncAckPayload
		if decode(msg.Data, &p) {
			handler.HandleSyncAck(p)
		}
	case ClientMsgScreenshotResponse:
		var p ScreenshotResponsePayload
		if decode(msg.Data, &p) {
			handler.HandleScreenshot(p)
		}
	default:
		logging.Debug().Str("type", msg.Type).Msg("screenbus: unknown inbound message type")
	}
}

// decode re-marshals a generic JSON object onto a concrete payload struct.
func decode(data map[string]interface{}, out interface{}) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		logging.Warn().Err(err).Msg("screenbus: failed to re-marshal inbound payload")
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logging.Warn().Err(err).Msg("screenbus: failed to decode inbound payload")
		return false
	}
	return true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout)); err != nil {
				logging.Error().Err(err).Msg("screenbus: failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Str("screen_id", c.screenID).Msg("screenbus: write failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// marshalMessage is exposed for tests asserting wire format.
func marshalMessage(msg ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}
