package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
	maxWarnings    = 5
)

// Client is one WebSocket connection. It implements types.ClientInterface.
type Client struct {
	ID string
	IP string

	server *Server
	conn   *websocket.Conn
	codec  codec.Codec
	send   chan []byte

	// release frees the connection slot.
	release func()

	mu       sync.RWMutex
	name     string
	roomCode string
	closed   bool
}

// NewClient wraps conn with a fresh id and a generated nickname.
func NewClient(s *Server, conn *websocket.Conn, c codec.Codec) *Client {
	return &Client{
		ID:     uuid.NewString(),
		name:   GenerateNickname(),
		server: s,
		conn:   conn,
		codec:  c,
		send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) GetID() string { return c.ID }

func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Client) SetName(name string) {
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	c.roomCode = code
	c.mu.Unlock()
}

// ReadPump decodes frames and hands them to the handler until the
// connection fails.
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.server.disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Debugw("read failed", "player", c.ID, "error", err)
			}
			return
		}

		allowed, warning := c.server.messageLimiter.AllowMessage(c.ID)
		if !allowed {
			c.SendMessage(codec.NewErrorMessageWithText(apperrors.ErrRateLimited.Code, apperrors.ErrRateLimited.Message))
			if c.server.messageLimiter.Warnings(c.ID) > maxWarnings {
				logger.L().Warnw("🚫 disconnecting flooding client", "player", c.ID, "ip", c.IP)
				return
			}
			continue
		}
		if warning {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "Slow down"))
		}

		msg, err := c.codec.Decode(data)
		if err != nil {
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}
		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	frameType := websocket.TextMessage
	if c.codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(frameType, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues msg. A full buffer closes the connection.
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := c.codec.Encode(msg)
	if err != nil {
		logger.L().Errorw("encode failed", "type", msg.Type, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		logger.L().Warnw("send buffer full, closing", "player", c.ID)
		c.closed = true
		close(c.send)
	}
}

// Close stops the write pump.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
