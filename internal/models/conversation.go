package models

import "time"

// Conversation is a single message/response pair from the chat advisor,
// scoped to a session and a user. Records are append-only and queried
// most-recent-first.
type Conversation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	Message    string    `json:"message"`
	Response   string    `json:"response"`
	Intent     string    `json:"intent,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DummyChat receives a chat message from a JSON request.
type DummyChat struct {
	SessionID string `json:"session_id" validate:"required,max=100"`
	Message   string `json:"message" validate:"required,max=2000"`
}
