package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
)

// userRepo defines the directory lookups needed by the member service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// relationshipReader resolves the caller's relationship with another member.
type relationshipReader interface {
	ConnectionStatus(ctx context.Context, otherUserID uuid.UUID) (*connection.StatusResult, error)
}

// Service exposes read-only member profiles. The directory itself is owned
// by the identity platform.
type Service struct {
	log           *slog.Logger
	users         userRepo
	relationships relationshipReader
}

// NewService creates a new member service instance.
func NewService(logger *slog.Logger, users userRepo, relationships relationshipReader) *Service {
	return &Service{
		log:           logger.With("service", "user"),
		users:         users,
		relationships: relationships,
	}
}

// MemberView is another member's profile as seen by the caller.
type MemberView struct {
	User         *domain.User
	Relationship domain.RelationshipStatus
	Connection   *domain.Connection
}
