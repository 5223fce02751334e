package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// GetProfile returns the authenticated user's profile.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) GetProfile(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.GetProfile: %w", err)
	}

	return user, nil
}

// GetMember returns another member's profile together with the caller's
// relationship to them. Viewing yourself yields RelationshipNone.
func (s *Service) GetMember(ctx context.Context, id uuid.UUID) (*MemberView, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.GetMember: %w", err)
	}

	status, err := s.relationships.ConnectionStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.GetMember: status: %w", err)
	}

	return &MemberView{User: user, Relationship: status.Status, Connection: status.Connection}, nil
}
