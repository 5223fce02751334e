package connection

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// ListConnections streams every connection of userID matching role, newest
// first. The sequence reads the store page by page as it is consumed and can
// be ranged over again to restart from the first page. A store error is
// yielded once and ends the sequence.
func (s *Service) ListConnections(ctx context.Context, userID uuid.UUID, role domain.ConnectionRole) iter.Seq2[*domain.Connection, error] {
	return func(yield func(*domain.Connection, error) bool) {
		if !role.IsValid() {
			yield(nil, domain.NewValidationError("role", "unknown connection role"))
			return
		}

		pageSize := max(s.policy.PageSize, 1)
		var cursor *domain.Cursor
		for {
			page, err := s.connections.List(ctx, domain.ConnectionFilter{
				UserID: userID,
				Role:   role,
				Limit:  pageSize,
				After:  cursor,
			})
			if err != nil {
				yield(nil, fmt.Errorf("list connections: %w", err))
				return
			}

			for i := range page {
				if !yield(&page[i], nil) {
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
}

// ListMyConnections returns one page of the authenticated user's connections.
func (s *Service) ListMyConnections(ctx context.Context, input ListInput) (*Page, error) {
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

	limit := s.clampLimit(input.Limit)
	items, err := s.connections.List(ctx, domain.ConnectionFilter{
		UserID: userID,
		Role:   input.Role,
		Limit:  limit + 1,
		After:  cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}
