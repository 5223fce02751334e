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

const connectionColumns = `id, requester_id, recipient_id, status, created_at, decided_at`

const (
	sqlInsertConnection = `
		INSERT INTO connections (id, requester_id, recipient_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING ` + connectionColumns

	sqlGetConnection = `SELECT ` + connectionColumns + ` FROM connections WHERE id = ?`

	sqlFindActiveBetween = `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE min(requester_id, recipient_id) = min(?, ?)
		  AND max(requester_id, recipient_id) = max(?, ?)
		  AND status IN ('PENDING', 'ACCEPTED')`

	sqlLatestRejectedBetween = `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE min(requester_id, recipient_id) = min(?, ?)
		  AND max(requester_id, recipient_id) = max(?, ?)
		  AND status = 'REJECTED'
		ORDER BY decided_at DESC
		LIMIT 1`

	sqlDecideConnection = `
		UPDATE connections
		SET status = ?, decided_at = ?
		WHERE id = ? AND status = 'PENDING'
		RETURNING ` + connectionColumns

	sqlRelatedUserIDs = `
		SELECT CASE WHEN requester_id = ? THEN recipient_id ELSE requester_id END
		FROM connections
		WHERE (requester_id = ? OR recipient_id = ?)
		  AND (status IN ('PENDING', 'ACCEPTED') OR (status = 'REJECTED' AND decided_at > ?))`

	sqlPruneRejected = `DELETE FROM connections WHERE status = 'REJECTED' AND decided_at < ?`
)

// ConnectionRepo is the SQLite Connection Store.
type ConnectionRepo struct {
	db *DB
}

// NewConnectionRepo creates a new connection repository.
func NewConnectionRepo(db *DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

// Create inserts a new edge. A concurrent active edge for the same unordered
// pair fails with domain.ErrAlreadyExists.
func (r *ConnectionRepo) Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error) {
	row := r.db.querier(ctx).QueryRowContext(ctx, sqlInsertConnection,
		c.ID, c.RequesterID, c.RecipientID, string(c.Status), toMillis(c.CreatedAt))
	created, err := scanConnection(row)
	if err != nil {
		return nil, mapError(err, "connection", c.ID)
	}
	return created, nil
}

// Decide moves a PENDING edge to status. An edge that is missing or no
// longer PENDING yields domain.ErrNotFound.
func (r *ConnectionRepo) Decide(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus, decidedAt time.Time) (*domain.Connection, error) {
	row := r.db.querier(ctx).QueryRowContext(ctx, sqlDecideConnection, string(status), toMillis(decidedAt), id)
	c, err := scanConnection(row)
	if err != nil {
		return nil, mapError(err, "connection", id)
	}
	return c, nil
}

// PruneRejected deletes REJECTED edges decided before the cutoff.
func (r *ConnectionRepo) PruneRejected(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.querier(ctx).ExecContext(ctx, sqlPruneRejected, toMillis(before))
	if err != nil {
		return 0, fmt.Errorf("prune rejected connections: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rejected connections: %w", err)
	}
	return n, nil
}

// GetByID returns an edge by primary key.
func (r *ConnectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	c, err := scanConnection(r.db.querier(ctx).QueryRowContext(ctx, sqlGetConnection, id))
	if err != nil {
		return nil, mapError(err, "connection", id)
	}
	return c, nil
}

// FindActiveBetween returns the PENDING or ACCEPTED edge of the unordered pair.
func (r *ConnectionRepo) FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	c, err := scanConnection(r.db.querier(ctx).QueryRowContext(ctx, sqlFindActiveBetween, a, b, a, b))
	if err != nil {
		return nil, mapError(err, "connection", a)
	}
	return c, nil
}

// LatestRejectedBetween returns the most recently decided REJECTED edge of the pair.
func (r *ConnectionRepo) LatestRejectedBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	c, err := scanConnection(r.db.querier(ctx).QueryRowContext(ctx, sqlLatestRejectedBetween, a, b, a, b))
	if err != nil {
		return nil, mapError(err, "connection", a)
	}
	return c, nil
}

// List returns one page of the user's edges for the role, newest first.
func (r *ConnectionRepo) List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error) {
	b := builder().
		Select(connectionColumns).
		From("connections").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))

	switch f.Role {
	case domain.ConnectionRoleAccepted:
		b = b.Where(squirrel.Eq{"status": string(domain.ConnectionStatusAccepted)}).
			Where(squirrel.Or{
				squirrel.Eq{"requester_id": f.UserID},
				squirrel.Eq{"recipient_id": f.UserID},
			})
	case domain.ConnectionRoleSentPending:
		b = b.Where(squirrel.Eq{"status": string(domain.ConnectionStatusPending), "requester_id": f.UserID})
	case domain.ConnectionRoleReceivedPending:
		b = b.Where(squirrel.Eq{"status": string(domain.ConnectionStatusPending), "recipient_id": f.UserID})
	default:
		return nil, fmt.Errorf("unknown connection role %q", f.Role)
	}
	if f.After != nil {
		b = b.Where(squirrel.Expr("(created_at, id) < (?, ?)", toMillis(f.After.CreatedAt), f.After.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list connections query: %w", err)
	}

	rows, err := r.db.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Connection, 0, f.Limit)
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list connections rows: %w", err)
	}
	return result, nil
}

// RelatedUserIDs returns the users sharing a PENDING or ACCEPTED edge with
// userID, plus those with a REJECTED edge decided after rejectedSince.
func (r *ConnectionRepo) RelatedUserIDs(ctx context.Context, userID uuid.UUID, rejectedSince time.Time) ([]uuid.UUID, error) {
	rows, err := r.db.querier(ctx).QueryContext(ctx, sqlRelatedUserIDs, userID, userID, userID, toMillis(rejectedSince))
	if err != nil {
		return nil, fmt.Errorf("related user ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan related user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("related user ids rows: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*domain.Connection, error) {
	var (
		c         domain.Connection
		status    string
		createdAt int64
		decidedAt sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.RequesterID, &c.RecipientID, &status, &createdAt, &decidedAt); err != nil {
		return nil, err
	}
	c.Status = domain.ConnectionStatus(status)
	c.CreatedAt = fromMillis(createdAt)
	c.DecidedAt = timePtr(decidedAt)
	return &c, nil
}
