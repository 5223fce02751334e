package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	user := SeedUser(t, pool)

	// Verify user exists in DB via SELECT.
	var email string
	err := pool.QueryRow(
		context.Background(),
		`SELECT email FROM users WHERE id = $1`,
		user.ID,
	).Scan(&email)
	if err != nil {
		t.Fatalf("expected user in DB, got error: %v", err)
	}

	if email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, email)
	}
}

func TestSeedConnection_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	a := SeedUser(t, pool)
	b := SeedUser(t, pool)
	conn := SeedConnection(t, pool, a.ID, b.ID, "ACCEPTED", nil)

	var status string
	err := pool.QueryRow(
		context.Background(),
		`SELECT status FROM connections WHERE id = $1`,
		conn.ID,
	).Scan(&status)
	if err != nil {
		t.Fatalf("expected connection in DB, got error: %v", err)
	}
	if status != "ACCEPTED" {
		t.Fatalf("expected ACCEPTED, got %q", status)
	}
	if conn.DecidedAt == nil {
		t.Fatal("expected decided_at to be set for an accepted edge")
	}
}
