package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

// UserDTO is the public profile of a member.
type UserDTO struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"displayName"`
	Role           string    `json:"role"`
	Headline       *string   `json:"headline,omitempty"`
	Company        *string   `json:"company,omitempty"`
	Department     *string   `json:"department,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	AvatarURL      *string   `json:"avatarUrl,omitempty"`
}

func toUserDTO(u *domain.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:             u.ID,
		DisplayName:    u.DisplayName,
		Role:           u.Role.String(),
		Headline:       u.Headline,
		Company:        u.Company,
		Department:     u.Department,
		GraduationYear: u.GraduationYear,
		AvatarURL:      u.AvatarURL,
	}
}

// ConnectionDTO is a connection edge as seen by the viewer.
type ConnectionDTO struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requesterId"`
	RecipientID uuid.UUID  `json:"recipientId"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	Counterpart *UserDTO   `json:"counterpart,omitempty"`
}

func toConnectionDTO(c *domain.Connection) ConnectionDTO {
	return ConnectionDTO{
		ID:          c.ID,
		RequesterID: c.RequesterID,
		RecipientID: c.RecipientID,
		Status:      c.Status.String(),
		CreatedAt:   c.CreatedAt,
		DecidedAt:   c.DecidedAt,
	}
}

// ConnectionPageDTO is one page of connections.
type ConnectionPageDTO struct {
	Items      []ConnectionDTO `json:"items"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// StatusDTO is the relationship between the viewer and another user.
type StatusDTO struct {
	UserID       uuid.UUID  `json:"userId"`
	Status       string     `json:"status"`
	ConnectionID *uuid.UUID `json:"connectionId,omitempty"`
}

// ChatDTO is a chat thread.
type ChatDTO struct {
	ID            uuid.UUID   `json:"id"`
	Participants  []uuid.UUID `json:"participantIds"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastMessageAt *time.Time  `json:"lastMessageAt,omitempty"`
	Peer          *UserDTO    `json:"peer,omitempty"`
}

func toChatDTO(c *domain.Chat) ChatDTO {
	return ChatDTO{
		ID:            c.ID,
		Participants:  c.ParticipantIDs(),
		CreatedAt:     c.CreatedAt,
		LastMessageAt: c.LastMessageAt,
	}
}

// MessageDTO is one chat message.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chatId"`
	SenderID  uuid.UUID `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMessageDTO(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// MessagePageDTO is one page of messages, newest first.
type MessagePageDTO struct {
	Items      []MessageDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// NotificationDTO is one notification.
type NotificationDTO struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	ActorID      uuid.UUID  `json:"actorId"`
	ConnectionID *uuid.UUID `json:"connectionId,omitempty"`
	Read         bool       `json:"read"`
	ReadAt       *time.Time `json:"readAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toNotificationDTO(n *domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:           n.ID,
		Type:         n.Type.String(),
		ActorID:      n.ActorID,
		ConnectionID: n.ConnectionID,
		Read:         n.IsRead(),
		ReadAt:       n.ReadAt,
		CreatedAt:    n.CreatedAt,
	}
}

// NotificationPageDTO is one page of notifications plus the unread total.
type NotificationPageDTO struct {
	Items       []NotificationDTO `json:"items"`
	NextCursor  string            `json:"nextCursor,omitempty"`
	UnreadCount int               `json:"unreadCount"`
}
