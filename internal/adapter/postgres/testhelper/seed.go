package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an ALUMNI user with default profile values.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	return SeedUserWithRole(t, pool, domain.UserRoleAlumni)
}

// SeedUserWithRole creates a user with the given role.
func SeedUserWithRole(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	company := "Company " + suffix
	year := 2015
	user := domain.User{
		ID:             uuid.New(),
		Email:          "testuser-" + suffix + "@example.com",
		DisplayName:    "Test User " + suffix,
		Role:           role,
		Company:        &company,
		GraduationYear: &year,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, display_name, role, company, graduation_year, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.DisplayName, string(user.Role), user.Company, user.GraduationYear, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedConnection inserts a connection edge directly, bypassing the service.
// decidedAt is ignored for PENDING edges and defaults to now for decided ones.
func SeedConnection(
	t *testing.T,
	pool *pgxpool.Pool,
	requesterID, recipientID uuid.UUID,
	status domain.ConnectionStatus,
	decidedAt *time.Time,
) domain.Connection {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	conn := domain.Connection{
		ID:          uuid.New(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      status,
		CreatedAt:   now,
	}
	if status != domain.ConnectionStatusPending {
		d := now
		if decidedAt != nil {
			d = decidedAt.UTC().Truncate(time.Microsecond)
		}
		conn.DecidedAt = &d
		if d.Before(conn.CreatedAt) {
			conn.CreatedAt = d
		}
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO connections (id, requester_id, recipient_id, status, created_at, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		conn.ID, conn.RequesterID, conn.RecipientID, string(conn.Status), conn.CreatedAt, conn.DecidedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedConnection insert: %v", err)
	}

	return conn
}

// SeedChat inserts a chat for the pair of users.
func SeedChat(t *testing.T, pool *pgxpool.Pool, a, b uuid.UUID) domain.Chat {
	t.Helper()
	ctx := context.Background()

	chat := domain.Chat{
		ID:           uuid.New(),
		Participants: domain.NewPair(a, b),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO chats (id, user_low, user_high, created_at) VALUES ($1, $2, $3, $4)`,
		chat.ID, chat.Participants.Low, chat.Participants.High, chat.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChat insert: %v", err)
	}

	return chat
}
