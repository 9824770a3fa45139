package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/spellcast/internal/protocol"
)

// Proto encodes messages as a protobuf Struct {type, payload}.
// Payloads keep their JSON field names so both codecs share payload types.
var Proto Codec = protoCodec{}

type protoCodec struct{}

func (protoCodec) Binary() bool { return true }

func (protoCodec) Encode(m *protocol.Message) ([]byte, error) {
	s := GetStruct()
	defer PutStruct(s)

	s.Fields = map[string]*structpb.Value{
		"type": structpb.NewStringValue(string(m.Type)),
	}
	if len(m.Payload) > 0 {
		var raw any
		if err := json.Unmarshal(m.Payload, &raw); err != nil {
			return nil, fmt.Errorf("payload of %s: %w", m.Type, err)
		}
		v, err := structpb.NewValue(raw)
		if err != nil {
			return nil, fmt.Errorf("payload of %s: %w", m.Type, err)
		}
		s.Fields["payload"] = v
	}
	return proto.Marshal(s)
}

func (protoCodec) Decode(data []byte) (*protocol.Message, error) {
	s := GetStruct()
	defer PutStruct(s)

	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	t, ok := s.Fields["type"]
	if !ok {
		return nil, fmt.Errorf("missing message type")
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(t.GetStringValue())
	if p, ok := s.Fields["payload"]; ok {
		raw, err := json.Marshal(p.AsInterface())
		if err != nil {
			PutMessage(msg)
			return nil, err
		}
		msg.Payload = raw
	}
	return msg, nil
}
