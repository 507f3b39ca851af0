package websocket

import (
	"encoding/json"

	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Message actions sent to clients.
const (
	ActionSubscribed = "subscribed"
	ActionEvent      = "event"
	ActionError      = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

func encode(msg Message) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("action", msg.Action).Msg("Failed to encode websocket message")
		return nil
	}
	return data
}

// NewEventMessage wraps an activity log entry.
func NewEventMessage(event models.Event) []byte {
	return encode(Message{Action: ActionEvent, Payload: event})
}

// NewErrorMessage creates an error message for a client.
func NewErrorMessage(message string) []byte {
	return encode(Message{Action: ActionError, Payload: map[string]string{"message": message}})
}

func newSubscribedMessage() []byte {
	return encode(Message{Action: ActionSubscribed})
}
