package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// AcceptRequest moves a PENDING request addressed to the authenticated user
// to ACCEPTED and notifies the requester.
func (s *Service) AcceptRequest(ctx context.Context, input DecideRequestInput) (*domain.Connection, error) {
	return s.decide(ctx, input, domain.ConnectionStatusAccepted)
}

// RejectRequest moves a PENDING request addressed to the authenticated user
// to REJECTED.
func (s *Service) RejectRequest(ctx context.Context, input DecideRequestInput) (*domain.Connection, error) {
	return s.decide(ctx, input, domain.ConnectionStatusRejected)
}

func (s *Service) decide(ctx context.Context, input DecideRequestInput, status domain.ConnectionStatus) (*domain.Connection, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var decided *domain.Connection
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.connections.GetByID(txCtx, input.ConnectionID)
		if err != nil {
			return fmt.Errorf("get connection: %w", err)
		}
		// A decided connection is InvalidState for every caller.
		if current.Status.IsTerminal() {
			return domain.ErrInvalidState
		}
		if current.RecipientID != userID {
			return domain.ErrForbidden
		}

		decided, err = s.connections.Decide(txCtx, input.ConnectionID, status, now)
		if errors.Is(err, domain.ErrNotFound) {
			// Another decision committed between the read and the update.
			return domain.ErrInvalidState
		}
		if err != nil {
			return fmt.Errorf("decide connection: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			ID:         domain.NewID(),
			UserID:     userID,
			EntityType: domain.EntityTypeConnection,
			EntityID:   &decided.ID,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"status": map[string]any{
					"old": string(domain.ConnectionStatusPending),
					"new": string(status),
				},
			},
			CreatedAt: now,
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		if status != domain.ConnectionStatusAccepted {
			return nil
		}
		notifyErr := s.notifications.Create(txCtx, domain.Notification{
			ID:           domain.NewID(),
			RecipientID:  decided.RequesterID,
			Type:         domain.NotificationConnectionAccepted,
			ActorID:      userID,
			ConnectionID: &decided.ID,
			CreatedAt:    now,
		})
		if notifyErr != nil {
			return fmt.Errorf("notify requester: %w", notifyErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "connection decided",
		slog.String("user_id", userID.String()),
		slog.String("connection_id", decided.ID.String()),
		slog.String("status", string(status)),
	)

	return decided, nil
}
