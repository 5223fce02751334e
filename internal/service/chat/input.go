package chat

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

// OpenChatInput holds parameters for opening the chat with a peer.
type OpenChatInput struct {
	PeerID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i OpenChatInput) Validate() error {
	if i.PeerID == uuid.Nil {
		return domain.NewValidationError("peer_id", "required")
	}
	return nil
}

// SendMessageInput holds parameters for posting a message.
// Content is validated by the service since its limit is configurable.
type SendMessageInput struct {
	ChatID  uuid.UUID
	Content string
}

// Validate checks all fields and collects all errors.
func (i SendMessageInput) Validate() error {
	if i.ChatID == uuid.Nil {
		return domain.NewValidationError("chat_id", "required")
	}
	return nil
}

// ListMessagesInput holds parameters for reading a chat history page.
type ListMessagesInput struct {
	ChatID uuid.UUID
	Limit  int
	Before string
}

// Validate checks all fields and collects all errors.
func (i ListMessagesInput) Validate() error {
	var errs []domain.FieldError

	if i.ChatID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "chat_id", Message: "required"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListChatsInput holds parameters for listing the caller's chats.
type ListChatsInput struct {
	Limit int
}

// Validate checks all fields and collects all errors.
func (i ListChatsInput) Validate() error {
	if i.Limit < 0 {
		return domain.NewValidationError("limit", "must be >= 0")
	}
	return nil
}
