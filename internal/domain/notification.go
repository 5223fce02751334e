package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification tells a user that something happened in their network.
type Notification struct {
	ID           uuid.UUID
	RecipientID  uuid.UUID
	Type         NotificationType
	ActorID      uuid.UUID
	ConnectionID *uuid.UUID
	ReadAt       *time.Time
	CreatedAt    time.Time
}

// IsRead returns true if the notification has been marked as read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// AuditRecord logs a mutation event on a domain entity.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	EntityType EntityType
	EntityID   *uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
