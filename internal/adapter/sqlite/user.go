package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

const userColumns = `id, email, display_name, role, headline, company, department, graduation_year, avatar_url, created_at`

const (
	sqlGetUser = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	sqlUpsertUser = `
		INSERT INTO users (id, email, display_name, role, headline, company, department, graduation_year, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			display_name    = excluded.display_name,
			role            = excluded.role,
			headline        = excluded.headline,
			company         = excluded.company,
			department      = excluded.department,
			graduation_year = excluded.graduation_year,
			avatar_url      = excluded.avatar_url
		RETURNING ` + userColumns
)

// UserRepo is the SQLite identity directory.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID returns a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(r.db.querier(ctx).QueryRowContext(ctx, sqlGetUser, id))
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return u, nil
}

// GetByIDs returns the users with the given ids in unspecified order.
// Unknown ids are skipped.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	args := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	query, params, err := builder().Select(userColumns).From("users").Where(squirrel.Eq{"id": args}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get users query: %w", err)
	}
	return r.query(ctx, query, params...)
}

// ListCandidates returns one page of the discovery candidate pool ordered by
// created_at ASC, id ASC.
func (r *UserRepo) ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.User, error) {
	roles := make([]string, len(f.Roles))
	for i, role := range f.Roles {
		roles[i] = string(role)
	}

	b := builder().
		Select(userColumns).
		From("users").
		Where(squirrel.Eq{"role": roles}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(f.Limit))
	if f.After != nil {
		b = b.Where(squirrel.Expr("(created_at, id) > (?, ?)", toMillis(f.After.CreatedAt), f.After.ID))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list candidates query: %w", err)
	}
	return r.query(ctx, query, args...)
}

// Upsert inserts a user or refreshes the profile of an existing email.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := r.db.querier(ctx).QueryRowContext(ctx, sqlUpsertUser,
		u.ID, u.Email, u.DisplayName, string(u.Role), u.Headline, u.Company,
		u.Department, u.GraduationYear, u.AvatarURL, toMillis(u.CreatedAt),
	)
	saved, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "user", u.ID)
	}
	return saved, nil
}

func (r *UserRepo) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
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

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u              domain.User
		role           string
		headline       sql.NullString
		company        sql.NullString
		department     sql.NullString
		avatarURL      sql.NullString
		graduationYear sql.NullInt64
		createdAt      int64
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &role, &headline, &company,
		&department, &graduationYear, &avatarURL, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.Headline = stringPtr(headline)
	u.Company = stringPtr(company)
	u.Department = stringPtr(department)
	u.AvatarURL = stringPtr(avatarURL)
	if graduationYear.Valid {
		y := int(graduationYear.Int64)
		u.GraduationYear = &y
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
