package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered (version 7) id. Ids issued later in the
// process sort after earlier ones, so (created_at, id) keeps insertion order
// for rows that share a timestamp.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Cursor is a keyset position over (created_at, id).
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode returns the opaque string form of the cursor.
// Format: base64url(RFC3339Nano + "|" + id).
func (c Cursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses an opaque cursor. An empty string yields nil.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, NewValidationError("cursor", "malformed cursor")
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, NewValidationError("cursor", "malformed cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, NewValidationError("cursor", fmt.Sprintf("invalid timestamp %q", ts))
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, NewValidationError("cursor", fmt.Sprintf("invalid id %q", id))
	}
	return &Cursor{CreatedAt: createdAt, ID: parsedID}, nil
}

// ConnectionFilter selects one page of a user's connections, newest first.
type ConnectionFilter struct {
	UserID uuid.UUID
	Role   ConnectionRole
	Limit  int
	After  *Cursor
}

// CandidateFilter selects one page of the discovery candidate pool, oldest
// account first.
type CandidateFilter struct {
	Roles []UserRole
	Limit int
	After *Cursor
}

// MessageFilter selects one page of chat messages, newest first.
type MessageFilter struct {
	ChatID uuid.UUID
	Limit  int
	Before *Cursor
}

// NotificationFilter selects one page of a user's notifications, newest first.
type NotificationFilter struct {
	RecipientID uuid.UUID
	UnreadOnly  bool
	Limit       int
	After       *Cursor
}
