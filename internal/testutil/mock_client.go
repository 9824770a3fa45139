//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

// MockClient is a testify mock of types.ClientInterface
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetName(name string) {
	m.Called(name)
}

func (m *MockClient) GetRoom() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetRoom(roomCode string) {
	m.Called(roomCode)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient records everything sent to it. Safe for concurrent use since
// timer goroutines deliver to it.
type SimpleClient struct {
	ID   string
	Name string

	mu       sync.Mutex
	roomCode string
	messages []*protocol.Message
	closed   bool
}

// NewSimpleClient returns a recording client.
func NewSimpleClient(id, name string) *SimpleClient {
	return &SimpleClient{ID: id, Name: name}
}

func (c *SimpleClient) GetID() string { return c.ID }

func (c *SimpleClient) GetName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Name
}

func (c *SimpleClient) SetName(name string) {
	c.mu.Lock()
	c.Name = name
	c.mu.Unlock()
}

func (c *SimpleClient) GetRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode
}

func (c *SimpleClient) SetRoom(code string) {
	c.mu.Lock()
	c.roomCode = code
	c.mu.Unlock()
}

func (c *SimpleClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

func (c *SimpleClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Closed reports whether Close was called.
func (c *SimpleClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages returns a copy of everything received.
func (c *SimpleClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*protocol.Message(nil), c.messages...)
}

// Types returns the received message types in order.
func (c *SimpleClient) Types() []protocol.MessageType {
	msgs := c.Messages()
	out := make([]protocol.MessageType, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

// MessagesOfType filters received messages.
func (c *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, m := range c.Messages() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// Count returns how many messages of type t were received.
func (c *SimpleClient) Count(t protocol.MessageType) int {
	return len(c.MessagesOfType(t))
}

// Reset forgets received messages.
func (c *SimpleClient) Reset() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

// Last decodes the payload of the most recent message of type t.
// ok is false when none was received.
func Last[T any](c *SimpleClient, t protocol.MessageType) (payload *T, ok bool) {
	msgs := c.MessagesOfType(t)
	if len(msgs) == 0 {
		return nil, false
	}
	p, err := codec.ParsePayload[T](msgs[len(msgs)-1])
	if err != nil {
		return nil, false
	}
	return p, true
}
