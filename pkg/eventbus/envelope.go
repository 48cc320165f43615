package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const jsonContentType = "application/json"

// NewJSONMessage builds a Message with a generated ID and a JSON-encoded
// payload.
func NewJSONMessage(key string, payload any) (*Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event payload: %w", err)
	}
	return &Message{
		ID:          uuid.NewString(),
		Key:         key,
		Value:       value,
		ContentType: jsonContentType,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// DecodeJSON unmarshals the message payload into out.
func DecodeJSON(msg *Message, out any) error {
	if msg == nil {
		return fmt.Errorf("message is nil")
	}
	if err := json.Unmarshal(msg.Value, out); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}
	return nil
}
