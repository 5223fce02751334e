// Package user implements the read side of the identity directory using
// PostgreSQL. The network core never mutates users; Upsert exists for the
// development seeder only.
package user

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

const columns = `id, email, display_name, role, headline, company, department, graduation_year, avatar_url, created_at`

const (
	sqlGetByID = `SELECT ` + columns + ` FROM users WHERE id = $1`

	sqlGetByIDs = `SELECT ` + columns + ` FROM users WHERE id = ANY($1)`

	sqlUpsert = `
		INSERT INTO users (id, email, display_name, role, headline, company, department, graduation_year, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO UPDATE SET
			display_name    = EXCLUDED.display_name,
			role            = EXCLUDED.role,
			headline        = EXCLUDED.headline,
			company         = EXCLUDED.company,
			department      = EXCLUDED.department,
			graduation_year = EXCLUDED.graduation_year,
			avatar_url      = EXCLUDED.avatar_url
		RETURNING ` + columns
)

// Repo provides user lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, sqlGetByID, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// GetByIDs returns the users with the given ids in no particular order.
// Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sqlGetByIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	return collect(rows)
}

// ListCandidates returns one page of the discovery candidate pool ordered by
// created_at ASC, id ASC.
func (r *Repo) ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.User, error) {
	roles := make([]string, len(f.Roles))
	for i, role := range f.Roles {
		roles[i] = string(role)
	}

	b := postgres.Builder().
		Select(columns).
		From("users").
		Where(squirrel.Eq{"role": roles}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(f.Limit))
	if f.After != nil {
		b = b.Where(squirrel.Expr("(created_at, id) > (?, ?)", f.After.CreatedAt, f.After.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list candidates query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return collect(rows)
}

// Upsert inserts a user or refreshes the profile of an existing email.
func (r *Repo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, sqlUpsert,
		u.ID, u.Email, u.DisplayName, string(u.Role), u.Headline, u.Company,
		u.Department, u.GraduationYear, u.AvatarURL, u.CreatedAt,
	)
	saved, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return saved, nil
}

func collect(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users rows: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &role, &u.Headline, &u.Company,
		&u.Department, &u.GraduationYear, &u.AvatarURL, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
