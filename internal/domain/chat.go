package domain

import (
	"time"

	"github.com/google/uuid"
)

// Chat is the single conversation thread between two connected users.
// Participants are kept in canonical pair order.
type Chat struct {
	ID            uuid.UUID
	Participants  Pair
	CreatedAt     time.Time
	LastMessageAt *time.Time
}

// ParticipantIDs returns both participants.
func (c *Chat) ParticipantIDs() []uuid.UUID {
	return []uuid.UUID{c.Participants.Low, c.Participants.High}
}

// HasParticipant returns true if userID takes part in the chat.
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	return c.Participants.Contains(userID)
}

// Message is one append-only chat message.
type Message struct {
	ID        uuid.UUID
	ChatID    uuid.UUID
	SenderID  uuid.UUID
	Content   string
	CreatedAt time.Time
}
