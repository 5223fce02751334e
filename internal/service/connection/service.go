// Package connection implements the connection request state machine:
// send, accept, reject, listing by role and relationship status.
package connection

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

type connectionRepo interface {
	Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error)
	FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error)
	LatestRejectedBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error)
	Decide(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus, decidedAt time.Time) (*domain.Connection, error)
	List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type notificationRepo interface {
	Create(ctx context.Context, n domain.Notification) error
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Policy holds the tunables of the connection graph.
type Policy struct {
	// RejectionCooldown blocks a new request for a pair after a rejection.
	// Zero disables the cool-down.
	RejectionCooldown time.Duration
	// PageSize is the batch size used when streaming connections.
	PageSize     int
	DefaultLimit int
	MaxLimit     int
}

// Service provides connection graph operations.
type Service struct {
	connections   connectionRepo
	users         userRepo
	notifications notificationRepo
	audit         auditLogger
	tx            txManager
	policy        Policy
	now           func() time.Time
	log           *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for timestamps and cool-down checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Connection service.
func NewService(
	log *slog.Logger,
	connections connectionRepo,
	users userRepo,
	notifications notificationRepo,
	audit auditLogger,
	tx txManager,
	policy Policy,
	opts ...Option,
) *Service {
	s := &Service{
		connections:   connections,
		users:         users,
		notifications: notifications,
		audit:         audit,
		tx:            tx,
		policy:        policy,
		now:           func() time.Time { return time.Now().UTC() },
		log:           log.With("service", "connection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page is one page of connections with the cursor of the next page.
// NextCursor is empty on the last page.
type Page struct {
	Items      []domain.Connection
	NextCursor string
}

// StatusResult is the relationship between the caller and another user.
// Connection is nil when Status is NONE.
type StatusResult struct {
	Status     domain.RelationshipStatus
	Connection *domain.Connection
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.policy.DefaultLimit
	}
	return min(limit, s.policy.MaxLimit)
}
