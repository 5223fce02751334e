package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// SendMessage appends a message from the authenticated user to a chat they
// take part in.
func (s *Service) SendMessage(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	senderID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrEmptyContent
	}
	if maxLen := s.policy.MessageMaxLength; maxLen > 0 && utf8.RuneCountInString(input.Content) > maxLen {
		return nil, domain.NewValidationError("content", fmt.Sprintf("must be at most %d characters", maxLen))
	}

	chat, err := s.chats.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if !chat.HasParticipant(senderID) {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	var msg *domain.Message
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var appendErr error
		msg, appendErr = s.chats.AppendMessage(txCtx, &domain.Message{
			ID:        domain.NewID(),
			ChatID:    chat.ID,
			SenderID:  senderID,
			Content:   input.Content,
			CreatedAt: now,
		})
		if appendErr != nil {
			return fmt.Errorf("append message: %w", appendErr)
		}

		return s.audit.Log(txCtx, domain.AuditRecord{
			ID:         domain.NewID(),
			UserID:     senderID,
			EntityType: domain.EntityTypeMessage,
			EntityID:   &msg.ID,
			Action:     domain.AuditActionCreate,
			Changes:    map[string]any{"chat_id": chat.ID.String()},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "message sent",
		slog.String("user_id", senderID.String()),
		slog.String("chat_id", chat.ID.String()),
		slog.String("message_id", msg.ID.String()),
	)

	return msg, nil
}

// ListMessages returns one page of a chat's history to a participant.
func (s *Service) ListMessages(ctx context.Context, input ListMessagesInput) (*MessagePage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	before, err := domain.DecodeCursor(input.Before)
	if err != nil {
		return nil, err
	}

	chat, err := s.chats.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if !chat.HasParticipant(userID) {
		return nil, domain.ErrForbidden
	}

	limit := s.clampLimit(input.Limit)
	items, err := s.chats.ListMessages(ctx, domain.MessageFilter{
		ChatID: chat.ID,
		Limit:  limit + 1,
		Before: before,
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	page := &MessagePage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}
