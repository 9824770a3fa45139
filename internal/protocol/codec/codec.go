package codec

import (
	"bytes"
	"encoding/json"

	"github.com/palemoky/spellcast/internal/protocol"
)

// Codec turns messages into frames and back.
type Codec interface {
	Encode(m *protocol.Message) ([]byte, error)
	Decode(data []byte) (*protocol.Message, error)
	// Binary reports whether frames should be sent as binary websocket messages.
	Binary() bool
}

// JSON is the default text codec.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Encode(m *protocol.Message) ([]byte, error) { return Encode(m) }
func (jsonCodec) Decode(data []byte) (*protocol.Message, error) {
	return Decode(data)
}
func (jsonCodec) Binary() bool { return false }

// ForName returns the codec selected by a connection query value.
func ForName(name string) Codec {
	if name == "proto" || name == "protobuf" {
		return Proto
	}
	return JSON
}

// NewMessage builds a message with a JSON payload.
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return &protocol.Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

// MustNewMessage is NewMessage that panics on error.
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode marshals a message to JSON.
func Encode(m *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Decode parses a JSON frame.
func Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

// ParsePayload unmarshals the payload of msg into T. An empty payload yields the zero value.
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage builds an error event with the default text for code.
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText builds an error event with custom text.
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}
