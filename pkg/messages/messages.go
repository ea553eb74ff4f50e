package messages

import (
	"encoding/json"
	"fmt"
)

const (
	// MessageBufferSize is the largest frame accepted from a client
	MessageBufferSize = 1024
)

type MessageType string

// Message types
const (
	MessageTypeServerPlayerAssigned MessageType = "playerAssigned"
	MessageTypeServerGameFull       MessageType = "gameFull"
	MessageTypeServerGameUpdate     MessageType = "gameUpdate"
	MessageTypeClientPaddleMove     MessageType = "paddleMove"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope of every frame on the wire.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
// A nil payload produces a message without one.
func NewMessage(t MessageType, payload interface{}) (*Message, error) {
	msg := &Message{Type: t}
	if payload == nil {
		return msg, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %v", t, err)
	}
	msg.Payload = b

	return msg, nil
}

// DecodePayload unmarshals the payload of a message into v.
func (m *Message) DecodePayload(v interface{}) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("message %s has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v", m.Type, err)
	}
	return nil
}
