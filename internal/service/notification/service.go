// Package notification exposes a user's connection notifications.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

type notificationRepo interface {
	List(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID, at time.Time) (*domain.Notification, error)
}

// Service provides notification operations.
type Service struct {
	notifications notificationRepo
	defaultLimit  int
	maxLimit      int
	now           func() time.Time
	log           *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Notification service.
func NewService(log *slog.Logger, notifications notificationRepo, defaultLimit, maxLimit int, opts ...Option) *Service {
	s := &Service{
		notifications: notifications,
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
		now:           func() time.Time { return time.Now().UTC() },
		log:           log.With("service", "notification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListInput holds parameters for listing notifications.
type ListInput struct {
	UnreadOnly bool
	Limit      int
	Cursor     string
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	if i.Limit < 0 {
		return domain.NewValidationError("limit", "must be >= 0")
	}
	return nil
}

// Page is one page of notifications plus the caller's unread total.
type Page struct {
	Items       []domain.Notification
	NextCursor  string
	UnreadCount int
}

// ListNotifications returns the authenticated user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, input ListInput) (*Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	cursor, err := domain.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, err
	}

	limit := s.defaultLimit
	if input.Limit > 0 {
		limit = min(input.Limit, s.maxLimit)
	}

	items, err := s.notifications.List(ctx, domain.NotificationFilter{
		RecipientID: userID,
		UnreadOnly:  input.UnreadOnly,
		Limit:       limit + 1,
		After:       cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	page := &Page{Items: items, UnreadCount: unread}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

// MarkRead marks one of the authenticated user's notifications as read.
// Notifications of other users are reported as not found.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	n, err := s.notifications.MarkRead(ctx, id, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}

	s.log.DebugContext(ctx, "notification read",
		slog.String("user_id", userID.String()),
		slog.String("notification_id", id.String()),
	)

	return n, nil
}
