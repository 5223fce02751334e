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

const (
	chatColumns    = `id, user_low, user_high, created_at, last_message_at`
	messageColumns = `id, chat_id, sender_id, content, created_at`
)

const (
	sqlInsertChat = `
		INSERT INTO chats (id, user_low, user_high, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_low, user_high) DO NOTHING`

	sqlGetChatByPair = `SELECT ` + chatColumns + ` FROM chats WHERE user_low = ? AND user_high = ?`

	sqlGetChat = `SELECT ` + chatColumns + ` FROM chats WHERE id = ?`

	sqlInsertMessage = `
		INSERT INTO messages (id, chat_id, sender_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING ` + messageColumns

	sqlTouchChat = `
		UPDATE chats SET last_message_at = ?
		WHERE id = ? AND (last_message_at IS NULL OR last_message_at < ?)`

	sqlListChatsByUser = `
		SELECT ` + chatColumns + `
		FROM chats
		WHERE user_low = ? OR user_high = ?
		ORDER BY COALESCE(last_message_at, created_at) DESC, id DESC
		LIMIT ?`
)

// ChatRepo is the SQLite chat and message store.
type ChatRepo struct {
	db *DB
}

// NewChatRepo creates a new chat repository.
func NewChatRepo(db *DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// GetOrCreate returns the chat of the pair, creating it with newID if none
// exists. Concurrent callers for the same pair all receive the same chat.
func (r *ChatRepo) GetOrCreate(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error) {
	q := r.db.querier(ctx)

	if _, err := q.ExecContext(ctx, sqlInsertChat, newID, pair.Low, pair.High, toMillis(now)); err != nil {
		return nil, mapError(err, "chat", newID)
	}

	c, err := scanChat(q.QueryRowContext(ctx, sqlGetChatByPair, pair.Low, pair.High))
	if err != nil {
		return nil, mapError(err, "chat", newID)
	}
	return c, nil
}

// GetByID returns a chat by primary key.
func (r *ChatRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	c, err := scanChat(r.db.querier(ctx).QueryRowContext(ctx, sqlGetChat, id))
	if err != nil {
		return nil, mapError(err, "chat", id)
	}
	return c, nil
}

// ListByUser returns the user's chats, most recent activity first.
func (r *ChatRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error) {
	rows, err := r.db.querier(ctx).QueryContext(ctx, sqlListChatsByUser, userID, userID, limit)
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

// AppendMessage inserts a message and advances the chat's last_message_at.
// Callers run it inside a transaction to keep both writes together.
func (r *ChatRepo) AppendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	q := r.db.querier(ctx)

	created, err := scanMessage(q.QueryRowContext(ctx, sqlInsertMessage,
		m.ID, m.ChatID, m.SenderID, m.Content, toMillis(m.CreatedAt)))
	if err != nil {
		return nil, mapError(err, "message", m.ID)
	}

	at := toMillis(m.CreatedAt)
	if _, err := q.ExecContext(ctx, sqlTouchChat, at, m.ChatID, at); err != nil {
		return nil, fmt.Errorf("touch chat: %w", err)
	}
	return created, nil
}

// ListMessages returns one page of a chat's messages, newest first.
func (r *ChatRepo) ListMessages(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error) {
	b := builder().
		Select(messageColumns).
		From("messages").
		Where(squirrel.Eq{"chat_id": f.ChatID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))
	if f.Before != nil {
		b = b.Where(squirrel.Expr("(created_at, id) < (?, ?)", toMillis(f.Before.CreatedAt), f.Before.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages query: %w", err)
	}

	rows, err := r.db.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Message, 0, f.Limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages rows: %w", err)
	}
	return result, nil
}

func scanChat(row rowScanner) (*domain.Chat, error) {
	var (
		c             domain.Chat
		createdAt     int64
		lastMessageAt sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Participants.Low, &c.Participants.High, &createdAt, &lastMessageAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(createdAt)
	c.LastMessageAt = timePtr(lastMessageAt)
	return &c, nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		m         domain.Message
		createdAt int64
	)
	if err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &createdAt); err != nil {
		return nil, err
	}
	m.CreatedAt = fromMillis(createdAt)
	return &m, nil
}
