// Package connection implements the Connection Store using PostgreSQL.
// The at-most-one-active-edge rule is enforced by the partial unique index
// ux_connections_active_pair; callers see a violation as domain.ErrAlreadyExists.
package connection

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

const columns = `id, requester_id, recipient_id, status, created_at, decided_at`

const (
	sqlInsert = `
		INSERT INTO connections (id, requester_id, recipient_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns

	sqlGetByID = `SELECT ` + columns + ` FROM connections WHERE id = $1`

	sqlFindActiveBetween = `
		SELECT ` + columns + `
		FROM connections
		WHERE LEAST(requester_id, recipient_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(requester_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
		  AND status IN ('PENDING', 'ACCEPTED')`

	sqlLatestRejectedBetween = `
		SELECT ` + columns + `
		FROM connections
		WHERE LEAST(requester_id, recipient_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(requester_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
		  AND status = 'REJECTED'
		ORDER BY decided_at DESC
		LIMIT 1`

	sqlDecide = `
		UPDATE connections
		SET status = $2, decided_at = $3
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + columns

	sqlRelatedUserIDs = `
		SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		FROM connections
		WHERE (requester_id = $1 OR recipient_id = $1)
		  AND (status IN ('PENDING', 'ACCEPTED') OR (status = 'REJECTED' AND decided_at > $2))`

	sqlPruneRejected = `DELETE FROM connections WHERE status = 'REJECTED' AND decided_at < $1`
)

// Repo provides connection persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new connection repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new edge. A concurrent active edge for the same unordered
// pair fails with domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, sqlInsert, c.ID, c.RequesterID, c.RecipientID, string(c.Status), c.CreatedAt)
	created, err := scanConnection(row)
	if err != nil {
		return nil, postgres.MapError(err, "connection", c.ID)
	}
	return created, nil
}

// Decide moves a PENDING edge to status. Returns domain.ErrNotFound when no
// PENDING edge with that id exists, whether it is missing or already decided.
func (r *Repo) Decide(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus, decidedAt time.Time) (*domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	decided, err := scanConnection(q.QueryRow(ctx, sqlDecide, id, string(status), decidedAt))
	if err != nil {
		return nil, postgres.MapError(err, "connection", id)
	}
	return decided, nil
}

// PruneRejected deletes REJECTED edges decided before the cutoff.
func (r *Repo) PruneRejected(ctx context.Context, before time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, sqlPruneRejected, before)
	if err != nil {
		return 0, fmt.Errorf("prune rejected connections: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an edge by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanConnection(q.QueryRow(ctx, sqlGetByID, id))
	if err != nil {
		return nil, postgres.MapError(err, "connection", id)
	}
	return c, nil
}

// FindActiveBetween returns the PENDING or ACCEPTED edge of the unordered
// pair {a, b}, or domain.ErrNotFound.
func (r *Repo) FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanConnection(q.QueryRow(ctx, sqlFindActiveBetween, a, b))
	if err != nil {
		return nil, postgres.MapError(err, "connection", uuid.Nil)
	}
	return c, nil
}

// LatestRejectedBetween returns the most recently decided REJECTED edge of
// the unordered pair {a, b}, or domain.ErrNotFound.
func (r *Repo) LatestRejectedBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanConnection(q.QueryRow(ctx, sqlLatestRejectedBetween, a, b))
	if err != nil {
		return nil, postgres.MapError(err, "connection", uuid.Nil)
	}
	return c, nil
}

// List returns one page of the user's edges for the given role, ordered by
// created_at DESC, id DESC.
func (r *Repo) List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error) {
	query, args, err := buildListQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build list connections query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
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

// RelatedUserIDs returns the ids of every user that shares a PENDING or
// ACCEPTED edge with userID, plus those with a REJECTED edge decided after
// rejectedSince.
func (r *Repo) RelatedUserIDs(ctx context.Context, userID uuid.UUID, rejectedSince time.Time) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sqlRelatedUserIDs, userID, rejectedSince)
	if err != nil {
		return nil, fmt.Errorf("related user ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect related user ids: %w", err)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Query building
// ---------------------------------------------------------------------------

func buildListQuery(f domain.ConnectionFilter) (string, []any, error) {
	b := postgres.Builder().
		Select(columns).
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
		b = b.Where(squirrel.Eq{
			"status":       string(domain.ConnectionStatusPending),
			"requester_id": f.UserID,
		})
	case domain.ConnectionRoleReceivedPending:
		b = b.Where(squirrel.Eq{
			"status":       string(domain.ConnectionStatusPending),
			"recipient_id": f.UserID,
		})
	default:
		return "", nil, fmt.Errorf("unknown connection role %q", f.Role)
	}

	if f.After != nil {
		b = b.Where(squirrel.Expr("(created_at, id) < (?, ?)", f.After.CreatedAt, f.After.ID))
	}

	return b.ToSql()
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanConnection(row pgx.Row) (*domain.Connection, error) {
	var (
		c      domain.Connection
		status string
	)
	if err := row.Scan(&c.ID, &c.RequesterID, &c.RecipientID, &status, &c.CreatedAt, &c.DecidedAt); err != nil {
		return nil, err
	}
	c.Status = domain.ConnectionStatus(status)
	return &c, nil
}
