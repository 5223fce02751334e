// Package notification implements notification persistence using PostgreSQL.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

const columns = `id, recipient_id, type, actor_id, connection_id, read_at, created_at`

const (
	sqlInsert = `
		INSERT INTO notifications (id, recipient_id, type, actor_id, connection_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	sqlMarkRead = `
		UPDATE notifications SET read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND recipient_id = $2
		RETURNING ` + columns

	sqlCountUnread = `SELECT count(*) FROM notifications WHERE recipient_id = $1 AND read_at IS NULL`
)

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a notification.
func (r *Repo) Create(ctx context.Context, n domain.Notification) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, sqlInsert, n.ID, n.RecipientID, string(n.Type), n.ActorID, n.ConnectionID, n.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "notification", n.ID)
	}
	return nil
}

// MarkRead sets read_at on a notification owned by recipientID. Already-read
// notifications keep their original read_at.
func (r *Repo) MarkRead(ctx context.Context, id, recipientID uuid.UUID, at time.Time) (*domain.Notification, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	n, err := scanNotification(q.QueryRow(ctx, sqlMarkRead, id, recipientID, at))
	if err != nil {
		return nil, postgres.MapError(err, "notification", id)
	}
	return n, nil
}

// CountUnread returns the number of unread notifications for the user.
func (r *Repo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, sqlCountUnread, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// List returns one page of the user's notifications, newest first.
func (r *Repo) List(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, error) {
	b := postgres.Builder().
		Select(columns).
		From("notifications").
		Where(squirrel.Eq{"recipient_id": f.RecipientID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))
	if f.UnreadOnly {
		b = b.Where(squirrel.Eq{"read_at": nil})
	}
	if f.After != nil {
		b = b.Where(squirrel.Expr("(created_at, id) < (?, ?)", f.After.CreatedAt, f.After.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Notification, 0, f.Limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications rows: %w", err)
	}
	return result, nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		n   domain.Notification
		typ string
	)
	if err := row.Scan(&n.ID, &n.RecipientID, &typ, &n.ActorID, &n.ConnectionID, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = domain.NotificationType(typ)
	return &n, nil
}
