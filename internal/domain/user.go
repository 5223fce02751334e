package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a member resolved from the identity directory. The network core
// reads users but never mutates them.
type User struct {
	ID             uuid.UUID
	Email          string
	DisplayName    string
	Role           UserRole
	Headline       *string
	Company        *string
	Department     *string
	GraduationYear *int
	AvatarURL      *string
	CreatedAt      time.Time
}
