// Package chat implements chat and message persistence using PostgreSQL.
package chat

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

const (
	chatColumns    = `id, user_low, user_high, created_at, last_message_at`
	messageColumns = `id, chat_id, sender_id, content, created_at`
)

const (
	sqlInsertChat = `
		INSERT INTO chats (id, user_low, user_high, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_low, user_high) DO NOTHING`

	sqlGetByPair = `SELECT ` + chatColumns + ` FROM chats WHERE user_low = $1 AND user_high = $2`

	sqlGetByID = `SELECT ` + chatColumns + ` FROM chats WHERE id = $1`

	sqlAppendMessage = `
		WITH m AS (
			INSERT INTO messages (id, chat_id, sender_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + messageColumns + `
		), touched AS (
			UPDATE chats SET last_message_at = $5
			WHERE id = $2 AND (last_message_at IS NULL OR last_message_at < $5)
		)
		SELECT ` + messageColumns + ` FROM m`

	sqlListByUser = `
		SELECT ` + chatColumns + `
		FROM chats
		WHERE user_low = $1 OR user_high = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC, id DESC
		LIMIT $2`
)

// Repo provides chat persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chat repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetOrCreate returns the chat of the pair, creating it with newID if none
// exists. Concurrent callers for the same pair all receive the same chat.
func (r *Repo) GetOrCreate(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, sqlInsertChat, newID, pair.Low, pair.High, now); err != nil {
		return nil, postgres.MapError(err, "chat", newID)
	}

	c, err := scanChat(q.QueryRow(ctx, sqlGetByPair, pair.Low, pair.High))
	if err != nil {
		return nil, postgres.MapError(err, "chat", newID)
	}
	return c, nil
}

// GetByID returns a chat by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanChat(q.QueryRow(ctx, sqlGetByID, id))
	if err != nil {
		return nil, postgres.MapError(err, "chat", id)
	}
	return c, nil
}

// ListByUser returns the user's chats, most recent activity first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sqlListByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chats rows: %w", err)
	}
	return chats, nil
}

// AppendMessage inserts a message and advances the chat's last_message_at in
// a single statement.
func (r *Repo) AppendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, sqlAppendMessage, m.ID, m.ChatID, m.SenderID, m.Content, m.CreatedAt)
	created, err := scanMessage(row)
	if err != nil {
		return nil, postgres.MapError(err, "message", m.ID)
	}
	return created, nil
}

// ListMessages returns one page of a chat's messages, newest first.
func (r *Repo) ListMessages(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error) {
	b := postgres.Builder().
		Select(messageColumns).
		From("messages").
		Where(squirrel.Eq{"chat_id": f.ChatID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))
	if f.Before != nil {
		b = b.Where(squirrel.Expr("(created_at, id) < (?, ?)", f.Before.CreatedAt, f.Before.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]domain.Message, 0, f.Limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages rows: %w", err)
	}
	return msgs, nil
}

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var c domain.Chat
	if err := row.Scan(&c.ID, &c.Participants.Low, &c.Participants.High, &c.CreatedAt, &c.LastMessageAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	if err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
