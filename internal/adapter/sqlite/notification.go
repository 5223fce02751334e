package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

const notificationColumns = `id, recipient_id, type, actor_id, connection_id, read_at, created_at`

const (
	sqlInsertNotification = `
		INSERT INTO notifications (id, recipient_id, type, actor_id, connection_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	sqlMarkNotificationRead = `
		UPDATE notifications SET read_at = COALESCE(read_at, ?)
		WHERE id = ? AND recipient_id = ?
		RETURNING ` + notificationColumns

	sqlCountUnread = `SELECT count(*) FROM notifications WHERE recipient_id = ? AND read_at IS NULL`
)

// NotificationRepo is the SQLite notification store.
type NotificationRepo struct {
	db *DB
}

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(db *DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create inserts a notification.
func (r *NotificationRepo) Create(ctx context.Context, n domain.Notification) error {
	var connectionID uuid.NullUUID
	if n.ConnectionID != nil {
		connectionID = uuid.NullUUID{UUID: *n.ConnectionID, Valid: true}
	}

	_, err := r.db.querier(ctx).ExecContext(ctx, sqlInsertNotification,
		n.ID, n.RecipientID, string(n.Type), n.ActorID, connectionID, toMillis(n.CreatedAt))
	if err != nil {
		return mapError(err, "notification", n.ID)
	}
	return nil
}

// MarkRead sets read_at on a notification owned by recipientID. Already-read
// notifications keep their original read_at.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID, at time.Time) (*domain.Notification, error) {
	row := r.db.querier(ctx).QueryRowContext(ctx, sqlMarkNotificationRead, toMillis(at), id, recipientID)
	n, err := scanNotification(row)
	if err != nil {
		return nil, mapError(err, "notification", id)
	}
	return n, nil
}

// CountUnread returns the number of unread notifications for the user.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	if err := r.db.querier(ctx).QueryRowContext(ctx, sqlCountUnread, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// List returns one page of the user's notifications, newest first.
func (r *NotificationRepo) List(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, error) {
	b := builder().
		Select(notificationColumns).
		From("notifications").
		Where(squirrel.Eq{"recipient_id": f.RecipientID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))
	if f.UnreadOnly {
		b = b.Where(squirrel.Eq{"read_at": nil})
	}
	if f.After != nil {
		b = b.Where(squirrel.Expr("(created_at, id) < (?, ?)", toMillis(f.After.CreatedAt), f.After.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	rows, err := r.db.querier(ctx).QueryContext(ctx, query, args...)
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

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var (
		n            domain.Notification
		typ          string
		connectionID uuid.NullUUID
		readAt       sql.NullInt64
		createdAt    int64
	)
	if err := row.Scan(&n.ID, &n.RecipientID, &typ, &n.ActorID, &connectionID, &readAt, &createdAt); err != nil {
		return nil, err
	}
	n.Type = domain.NotificationType(typ)
	if connectionID.Valid {
		id := connectionID.UUID
		n.ConnectionID = &id
	}
	n.ReadAt = timePtr(readAt)
	n.CreatedAt = fromMillis(createdAt)
	return &n, nil
}
