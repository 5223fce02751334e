// Package discovery filters candidate pools down to users the viewer has no
// relationship with.
package discovery

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

type connectionRepo interface {
	RelatedUserIDs(ctx context.Context, userID uuid.UUID, rejectedSince time.Time) ([]uuid.UUID, error)
}

type userRepo interface {
	ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.User, error)
}

// Policy holds the discovery tunables.
type Policy struct {
	// RejectionCooldown keeps recently rejected users hidden.
	RejectionCooldown time.Duration
	// PageSize is the batch size used when streaming the candidate pool.
	PageSize     int
	DefaultLimit int
	MaxLimit     int
}

// Service provides discovery operations.
type Service struct {
	connections connectionRepo
	users       userRepo
	policy      Policy
	now         func() time.Time
	log         *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock that anchors the rejection cool-down.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Discovery service.
func NewService(log *slog.Logger, connections connectionRepo, users userRepo, policy Policy, opts ...Option) *Service {
	s := &Service{
		connections: connections,
		users:       users,
		policy:      policy,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log.With("service", "discovery"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover returns the members of pool that are neither the viewer nor
// related to the viewer. The related set is read from the store when Discover
// is called; the pool itself is consumed lazily.
func (s *Service) Discover(ctx context.Context, viewerID uuid.UUID, pool iter.Seq[domain.User]) (iter.Seq[domain.User], error) {
	related, err := s.connections.RelatedUserIDs(ctx, viewerID, s.rejectedSince())
	if err != nil {
		return nil, fmt.Errorf("related user ids: %w", err)
	}

	excluded := make(map[uuid.UUID]struct{}, len(related)+1)
	excluded[viewerID] = struct{}{}
	for _, id := range related {
		excluded[id] = struct{}{}
	}

	return func(yield func(domain.User) bool) {
		for u := range pool {
			if _, skip := excluded[u.ID]; skip {
				continue
			}
			if !yield(u) {
				return
			}
		}
	}, nil
}

// CandidatePool streams every user with one of roles from the directory,
// oldest first. The returned func reports the first store error after the
// sequence stops.
func (s *Service) CandidatePool(ctx context.Context, roles []domain.UserRole) (iter.Seq[domain.User], func() error) {
	var poolErr error
	seq := func(yield func(domain.User) bool) {
		poolErr = nil
		pageSize := max(s.policy.PageSize, 1)
		var cursor *domain.Cursor
		for {
			page, err := s.users.ListCandidates(ctx, domain.CandidateFilter{
				Roles: roles,
				Limit: pageSize,
				After: cursor,
			})
			if err != nil {
				poolErr = fmt.Errorf("list candidates: %w", err)
				return
			}

			for _, u := range page {
				if !yield(u) {
					return
				}
			}

			if len(page) < pageSize {
				return
			}
			last := page[len(page)-1]
			cursor = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}
	}
	return seq, func() error { return poolErr }
}

// Suggest returns up to Limit unrelated network members for the
// authenticated user.
func (s *Service) Suggest(ctx context.Context, input SuggestInput) ([]domain.User, error) {
	viewerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []domain.UserRole{domain.UserRoleAlumni, domain.UserRoleStudent}
	}
	limit := s.clampLimit(input.Limit)

	pool, poolErr := s.CandidatePool(ctx, roles)
	candidates, err := s.Discover(ctx, viewerID, pool)
	if err != nil {
		return nil, err
	}

	result := make([]domain.User, 0, limit)
	for u := range candidates {
		result = append(result, u)
		if len(result) == limit {
			break
		}
	}
	if err := poolErr(); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "suggestions computed",
		slog.String("user_id", viewerID.String()),
		slog.Int("count", len(result)),
	)

	return result, nil
}

func (s *Service) rejectedSince() time.Time {
	if s.policy.RejectionCooldown <= 0 {
		// Any time in the future excludes every rejection.
		return s.now().Add(time.Hour)
	}
	return s.now().Add(-s.policy.RejectionCooldown)
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.policy.DefaultLimit
	}
	return min(limit, s.policy.MaxLimit)
}
