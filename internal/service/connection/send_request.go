package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// SendRequest creates a PENDING connection from the authenticated user to
// the recipient.
func (s *Service) SendRequest(ctx context.Context, input SendRequestInput) (*domain.Connection, error) {
	requesterID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.RecipientID == requesterID {
		return nil, domain.ErrSelfRequest
	}

	recipient, err := s.users.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	if !recipient.Role.IsNetworkMember() {
		return nil, domain.NewValidationError("recipient_id", "user is not a network member")
	}

	now := s.now()
	var created *domain.Connection
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkPairFree(txCtx, requesterID, input.RecipientID); err != nil {
			return err
		}

		var createErr error
		created, createErr = s.connections.Create(txCtx, &domain.Connection{
			ID:          domain.NewID(),
			RequesterID: requesterID,
			RecipientID: input.RecipientID,
			Status:      domain.ConnectionStatusPending,
			CreatedAt:   now,
		})
		if createErr != nil {
			return fmt.Errorf("create connection: %w", createErr)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			ID:         domain.NewID(),
			UserID:     requesterID,
			EntityType: domain.EntityTypeConnection,
			EntityID:   &created.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"recipient_id": input.RecipientID.String(),
				"status":       map[string]any{"new": string(domain.ConnectionStatusPending)},
			},
			CreatedAt: now,
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		notifyErr := s.notifications.Create(txCtx, domain.Notification{
			ID:           domain.NewID(),
			RecipientID:  input.RecipientID,
			Type:         domain.NotificationConnectionRequested,
			ActorID:      requesterID,
			ConnectionID: &created.ID,
			CreatedAt:    now,
		})
		if notifyErr != nil {
			return fmt.Errorf("notify recipient: %w", notifyErr)
		}

		return nil
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost the race on the active-pair index; report what the winner created.
		return nil, s.conflictFor(ctx, requesterID, input.RecipientID)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "connection requested",
		slog.String("user_id", requesterID.String()),
		slog.String("recipient_id", input.RecipientID.String()),
		slog.String("connection_id", created.ID.String()),
	)

	return created, nil
}

// checkPairFree fails when the pair already has an active edge or a
// rejection inside the cool-down window.
func (s *Service) checkPairFree(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	active, err := s.connections.FindActiveBetween(ctx, requesterID, recipientID)
	switch {
	case err == nil:
		return conflictKind(active)
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find active connection: %w", err)
	}

	if s.policy.RejectionCooldown <= 0 {
		return nil
	}

	rejected, err := s.connections.LatestRejectedBetween(ctx, requesterID, recipientID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find rejected connection: %w", err)
	}
	if rejected.DecidedAt != nil && s.now().Sub(*rejected.DecidedAt) < s.policy.RejectionCooldown {
		return domain.ErrRejectionCooldown
	}
	return nil
}

// conflictFor re-reads the pair after a unique violation.
func (s *Service) conflictFor(ctx context.Context, a, b uuid.UUID) error {
	active, err := s.connections.FindActiveBetween(ctx, a, b)
	switch {
	case err == nil:
		return conflictKind(active)
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrRequestAlreadyPending
	default:
		return fmt.Errorf("find active connection: %w", err)
	}
}

func conflictKind(active *domain.Connection) error {
	if active.Status == domain.ConnectionStatusAccepted {
		return domain.ErrAlreadyConnected
	}
	return domain.ErrRequestAlreadyPending
}
