package websocket

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

func encode(action string, payload any) ([]byte, error) {
	var raw json.RawMessage

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", action, err)
		}

		raw = data
	}

	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", action, err)
	}

	return data, nil
}

func decodePayload(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is missing", apperror.ErrInvalidPayload)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return nil
}

// decodeRoomID accepts either a bare "room-id" string or {"roomId": "room-id"}.
func decodeRoomID(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	var roomID string
	if strings.HasPrefix(trimmed, `"`) {
		if err := json.Unmarshal(raw, &roomID); err != nil {
			return "", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
		}

		return roomID, nil
	}

	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return payload.RoomID, nil
}
