// Package queue defines the domain events published over the message broker
// and the publisher and consumer that move them.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeAppearanceCreated = "appearance.created"
	TypeEpisodeDeleted    = "episode.deleted"
	TypeGuestDeleted      = "guest.deleted"
)

// Event is the envelope written to the queue. Payload holds one of the
// typed payloads below, already encoded.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// AppearanceCreated is published after an appearance is committed.
type AppearanceCreated struct {
	AppearanceID int64 `json:"appearance_id"`
	EpisodeID    int64 `json:"episode_id"`
	GuestID      int64 `json:"guest_id"`
	Rating       int   `json:"rating"`
}

// EpisodeDeleted is published after an episode and its appearances are
// removed.
type EpisodeDeleted struct {
	EpisodeID          int64 `json:"episode_id"`
	AppearancesRemoved int64 `json:"appearances_removed"`
}

// GuestDeleted is published after a guest and their appearances are
// removed.
type GuestDeleted struct {
	GuestID            int64 `json:"guest_id"`
	AppearancesRemoved int64 `json:"appearances_removed"`
}

// NewEvent wraps payload in an envelope with a fresh id and timestamp.
func NewEvent(typ string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}, nil
}
