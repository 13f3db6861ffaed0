package publishers

import (
	"encoding/json"
	"strconv"
	"time"
)

// Event kinds emitted after aggregate operations.
const (
	EventCommentsSaved = "comments_saved"
	EventOpenTodos     = "open_todos"
)

// Event represents the payload published downstream.
type Event struct {
	Kind        string          `json:"kind"`
	UserID      int             `json:"user_id"`
	PostID      int             `json:"post_id,omitempty"`
	File        string          `json:"file,omitempty"`
	Count       int             `json:"count"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event of the given kind for userID.
func NewEvent(kind string, userID int) Event {
	return Event{
		Kind:        kind,
		UserID:      userID,
		CollectedAt: time.Now().UTC(),
	}
}

// Attributes returns the routing attributes attached to queue/topic messages.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"kind":    e.Kind,
		"user_id": strconv.Itoa(e.UserID),
	}
}
