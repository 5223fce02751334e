package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// ConnectionStatus reports how the authenticated user relates to otherUserID,
// read from the store at call time.
func (s *Service) ConnectionStatus(ctx context.Context, otherUserID uuid.UUID) (*StatusResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if otherUserID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "required")
	}
	if otherUserID == userID {
		return &StatusResult{Status: domain.RelationshipNone}, nil
	}

	active, err := s.connections.FindActiveBetween(ctx, userID, otherUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return &StatusResult{Status: domain.RelationshipNone}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active connection: %w", err)
	}

	return &StatusResult{
		Status:     domain.RelationshipFor(active, userID),
		Connection: active,
	}, nil
}

// AreConnected reports whether a and b share an ACCEPTED connection.
func (s *Service) AreConnected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	active, err := s.connections.FindActiveBetween(ctx, a, b)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find active connection: %w", err)
	}
	return active.Status == domain.ConnectionStatusAccepted, nil
}
