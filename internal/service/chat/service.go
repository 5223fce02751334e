// Package chat bootstraps the one-to-one chat between connected users and
// carries its messages.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

type chatRepo interface {
	GetOrCreate(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error)
	AppendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error)
}

type connectionChecker interface {
	AreConnected(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Policy holds the chat tunables.
type Policy struct {
	MessageMaxLength int
	DefaultLimit     int
	MaxLimit         int
}

// Service provides chat operations.
type Service struct {
	chats       chatRepo
	connections connectionChecker
	audit       auditLogger
	tx          txManager
	policy      Policy
	now         func() time.Time
	log         *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Chat service.
func NewService(
	log *slog.Logger,
	chats chatRepo,
	connections connectionChecker,
	audit auditLogger,
	tx txManager,
	policy Policy,
	opts ...Option,
) *Service {
	s := &Service{
		chats:       chats,
		connections: connections,
		audit:       audit,
		tx:          tx,
		policy:      policy,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log.With("service", "chat"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MessagePage is one page of messages, newest first. NextCursor is empty on
// the last page.
type MessagePage struct {
	Items      []domain.Message
	NextCursor string
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.policy.DefaultLimit
	}
	return min(limit, s.policy.MaxLimit)
}
