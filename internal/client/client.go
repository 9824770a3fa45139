// Package client is the terminal client's connection to the game server.
package client

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	heartbeatInterval = 5 * time.Second
	bufferSize        = 256
)

var (
	ErrClosed     = errors.New("connection closed")
	ErrBufferFull = errors.New("send buffer full")
)

// Client is a WebSocket connection to the server.
type Client struct {
	ServerURL string
	conn      *websocket.Conn
	send      chan []byte
	receive   chan *protocol.Message
	done      chan struct{}

	mu         sync.RWMutex
	playerID   string
	playerName string
	closed     bool
	latency    atomic.Int64

	// OnClose runs once when the connection ends.
	OnClose func()
}

// New creates an unconnected client for serverURL (ws://host:port/ws).
func New(serverURL string) *Client {
	return &Client{
		ServerURL: serverURL,
		send:      make(chan []byte, bufferSize),
		receive:   make(chan *protocol.Message, bufferSize),
		done:      make(chan struct{}),
	}
}

// Connect dials the server and starts the pumps.
func (c *Client) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(c.ServerURL, nil)
	if err != nil {
		return err
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

// PlayerID is the id assigned by the server's connected event.
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// PlayerName is the current display name.
func (c *Client) PlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// Latency is the last measured round trip in milliseconds.
func (c *Client) Latency() int64 { return c.latency.Load() }

// SendMessage queues msg. It never blocks.
func (c *Client) SendMessage(msg *protocol.Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Receive blocks for the next server message.
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout is Receive bounded by timeout.
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, errors.New("receive timeout")
	case <-c.done:
		return nil, ErrClosed
	}
}

// Close ends the connection. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// IsConnected reports whether the connection is open.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// StartHeartbeat pings every few seconds to keep the latency current.
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = c.Ping()
			case <-c.done:
				return
			}
		}
	}()
}
