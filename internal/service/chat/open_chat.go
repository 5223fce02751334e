package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// GetOrCreateChat returns the single chat of the unordered pair {a, b},
// creating it on first use. It does not look at connection status; callers
// that expose it to users go through OpenChat.
func (s *Service) GetOrCreateChat(ctx context.Context, a, b uuid.UUID) (*domain.Chat, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return nil, domain.NewValidationError("participants", "required")
	}
	if a == b {
		return nil, domain.NewValidationError("participants", "must be two different users")
	}

	c, err := s.chats.GetOrCreate(ctx, domain.NewPair(a, b), domain.NewID(), s.now())
	if err != nil {
		return nil, fmt.Errorf("get or create chat: %w", err)
	}
	return c, nil
}

// OpenChat returns the chat between the authenticated user and a peer they
// are connected with.
func (s *Service) OpenChat(ctx context.Context, input OpenChatInput) (*domain.Chat, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.PeerID == userID {
		return nil, domain.NewValidationError("peer_id", "cannot open a chat with yourself")
	}

	connected, err := s.connections.AreConnected(ctx, userID, input.PeerID)
	if err != nil {
		return nil, fmt.Errorf("check connection: %w", err)
	}
	if !connected {
		return nil, domain.ErrForbidden
	}

	c, err := s.GetOrCreateChat(ctx, userID, input.PeerID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "chat opened",
		slog.String("user_id", userID.String()),
		slog.String("peer_id", input.PeerID.String()),
		slog.String("chat_id", c.ID.String()),
	)

	return c, nil
}

// ListChats returns the authenticated user's chats, most recent activity first.
func (s *Service) ListChats(ctx context.Context, input ListChatsInput) ([]domain.Chat, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	chats, err := s.chats.ListByUser(ctx, userID, s.clampLimit(input.Limit))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}
