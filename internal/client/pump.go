package client

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.Close()
		if c.OnClose != nil {
			c.OnClose()
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Debugw("connection lost", "error", err)
			}
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			logger.L().Debugw("bad frame", "error", err)
			continue
		}
		c.track(msg)

		select {
		case c.receive <- msg:
		case <-c.done:
			return
		}
	}
}

// track keeps identity and latency current before the UI sees msg.
func (c *Client) track(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgConnected:
		if p, err := codec.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.playerID, c.playerName = p.PlayerID, p.PlayerName
			c.mu.Unlock()
		}
	case protocol.MsgPong:
		if p, err := codec.ParsePayload[protocol.PongPayload](msg); err == nil {
			c.latency.Store(time.Now().UnixMilli() - p.ClientTimestamp)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
