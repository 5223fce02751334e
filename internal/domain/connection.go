package domain

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Connection is a directional request edge between two users. Once accepted
// it represents a symmetric "connected" relationship.
type Connection struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	RecipientID uuid.UUID
	Status      ConnectionStatus
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

// Involves returns true if userID is either side of the connection.
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.RecipientID == userID
}

// Counterpart returns the side of the connection that is not viewerID.
// ok is false when viewerID is not a party to the connection.
func Counterpart(c *Connection, viewerID uuid.UUID) (other uuid.UUID, ok bool) {
	switch viewerID {
	case c.RequesterID:
		return c.RecipientID, true
	case c.RecipientID:
		return c.RequesterID, true
	}
	return uuid.Nil, false
}

// RelationshipFor derives the viewer's relationship status from the active
// connection of a pair. A nil connection means no active relationship.
func RelationshipFor(c *Connection, viewerID uuid.UUID) RelationshipStatus {
	if c == nil || !c.Status.IsActive() || !c.Involves(viewerID) {
		return RelationshipNone
	}
	if c.Status == ConnectionStatusAccepted {
		return RelationshipConnected
	}
	if c.RequesterID == viewerID {
		return RelationshipPendingSent
	}
	return RelationshipPendingReceived
}

// Pair is an unordered pair of user ids stored in canonical order (Low < High).
type Pair struct {
	Low  uuid.UUID
	High uuid.UUID
}

// NewPair builds the canonical pair for a and b regardless of argument order.
func NewPair(a, b uuid.UUID) Pair {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// Contains returns true if id is one of the pair members.
func (p Pair) Contains(id uuid.UUID) bool {
	return p.Low == id || p.High == id
}

// Other returns the member of the pair that is not id.
func (p Pair) Other(id uuid.UUID) uuid.UUID {
	if p.Low == id {
		return p.High
	}
	return p.Low
}
