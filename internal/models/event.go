package models

import "time"

// Event types recorded in a user's activity log.
const (
	EventRegister   = "auth.register"
	EventLogin      = "auth.login"
	EventTaskCreate = "task.create"
	EventTaskDelete = "task.delete"
)

// Event represents an entry in a user's activity log.
type Event struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Type      string    `json:"type"` // e.g., "task.create", "auth.login"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
