package seeder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

type fakeUsers struct {
	mu    sync.Mutex
	saved map[string]*domain.User
}

func (f *fakeUsers) Upsert(_ context.Context, u *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string]*domain.User)
	}
	if existing, ok := f.saved[u.Email]; ok {
		return existing, nil
	}
	f.saved[u.Email] = u
	return u, nil
}

// fakeConnections keeps one edge per ordered request and records who acted.
type fakeConnections struct {
	mu       sync.Mutex
	edges    map[domain.Pair]*domain.Connection
	deciders []uuid.UUID
}

func (f *fakeConnections) SendRequest(ctx context.Context, in connection.SendRequestInput) (*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, _ := ctxutil.UserIDFromCtx(ctx)
	if f.edges == nil {
		f.edges = make(map[domain.Pair]*domain.Connection)
	}
	pair := domain.NewPair(from, in.RecipientID)
	if _, ok := f.edges[pair]; ok {
		return nil, domain.ErrRequestAlreadyPending
	}
	c := &domain.Connection{ID: uuid.New(), RequesterID: from, RecipientID: in.RecipientID, Status: domain.ConnectionStatusPending}
	f.edges[pair] = c
	return c, nil
}

func (f *fakeConnections) decide(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus) (*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	actor, _ := ctxutil.UserIDFromCtx(ctx)
	f.deciders = append(f.deciders, actor)
	for _, c := range f.edges {
		if c.ID == id {
			c.Status = status
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConnections) AcceptRequest(ctx context.Context, in connection.DecideRequestInput) (*domain.Connection, error) {
	return f.decide(ctx, in.ConnectionID, domain.ConnectionStatusAccepted)
}

func (f *fakeConnections) RejectRequest(ctx context.Context, in connection.DecideRequestInput) (*domain.Connection, error) {
	return f.decide(ctx, in.ConnectionID, domain.ConnectionStatusRejected)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFixture() *Fixture {
	return &Fixture{
		Users: []FixtureUser{
			{Email: "Ada@Example.org", DisplayName: "Ada", Role: "alumni", GraduationYear: 2015},
			{Email: "bo@example.org", DisplayName: "Bo", Role: "STUDENT"},
			{Email: "cy@example.org", Role: "ALUMNI", Company: "Initech"},
		},
		Connections: []FixtureConnection{
			{From: "ada@example.org", To: "bo@example.org", Status: "ACCEPTED"},
			{From: "cy@example.org", To: "ada@example.org", Status: "rejected"},
			{From: "bo@example.org", To: "cy@example.org", Status: "PENDING"},
		},
	}
}

func TestPipeline_SeedsUsersAndConnections(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{}
	conns := &fakeConnections{}
	p := NewPipeline(discardLogger(), users, conns, Config{}, testFixture())

	require.NoError(t, p.Run(context.Background(), nil))
	assert.False(t, p.HasErrors())

	assert.Equal(t, 3, p.Results()["users"].Inserted)
	assert.Equal(t, 3, p.Results()["connections"].Inserted)

	ada := users.saved["ada@example.org"]
	require.NotNil(t, ada)
	assert.Equal(t, domain.UserRoleAlumni, ada.Role)
	require.NotNil(t, ada.GraduationYear)
	assert.Equal(t, 2015, *ada.GraduationYear)
	assert.Equal(t, "cy@example.org", users.saved["cy@example.org"].DisplayName)

	bo := users.saved["bo@example.org"]
	edge := conns.edges[domain.NewPair(ada.ID, bo.ID)]
	require.NotNil(t, edge)
	assert.Equal(t, domain.ConnectionStatusAccepted, edge.Status)

	// Decisions are taken by the recipient.
	assert.ElementsMatch(t, []uuid.UUID{bo.ID, ada.ID}, conns.deciders)
}

func TestPipeline_RerunSkipsExistingEdges(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{}
	conns := &fakeConnections{}
	fixture := testFixture()

	require.NoError(t, NewPipeline(discardLogger(), users, conns, Config{}, fixture).Run(context.Background(), nil))

	second := NewPipeline(discardLogger(), users, conns, Config{}, fixture)
	require.NoError(t, second.Run(context.Background(), nil))

	assert.Equal(t, 3, second.Results()["connections"].Skipped)
	assert.False(t, second.HasErrors())
}

func TestPipeline_InvalidRowsCountAsErrors(t *testing.T) {
	t.Parallel()

	fixture := &Fixture{
		Users: []FixtureUser{
			{Email: "a@example.org", Role: "ALUMNI"},
			{Email: "", Role: "ALUMNI"},
			{Email: "x@example.org", Role: "TEACHER"},
		},
		Connections: []FixtureConnection{
			{From: "a@example.org", To: "ghost@example.org", Status: "PENDING"},
		},
	}
	p := NewPipeline(discardLogger(), &fakeUsers{}, &fakeConnections{}, Config{}, fixture)

	require.NoError(t, p.Run(context.Background(), nil))

	assert.True(t, p.HasErrors())
	assert.Equal(t, 1, p.Results()["users"].Inserted)
	assert.Equal(t, 2, p.Results()["users"].Errors)
	assert.Equal(t, 1, p.Results()["connections"].Errors)
}

func TestPipeline_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{}
	conns := &fakeConnections{}
	p := NewPipeline(discardLogger(), users, conns, Config{DryRun: true}, testFixture())

	require.NoError(t, p.Run(context.Background(), nil))

	assert.Empty(t, users.saved)
	assert.Empty(t, conns.edges)
	assert.Equal(t, 3, p.Results()["connections"].Skipped)
}

func TestPipeline_PhaseFilter(t *testing.T) {
	t.Parallel()

	p := NewPipeline(discardLogger(), &fakeUsers{}, &fakeConnections{}, Config{}, testFixture())
	require.NoError(t, p.Run(context.Background(), []string{"users"}))

	assert.Contains(t, p.Results(), "users")
	assert.NotContains(t, p.Results(), "connections")
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "network.yaml")
	content := `
users:
  - email: ada@example.org
    display_name: Ada
    role: ALUMNI
    graduation_year: 2015
connections:
  - from: ada@example.org
    to: bo@example.org
    status: PENDING
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, f.Users, 1)
	assert.Equal(t, 2015, f.Users[0].GraduationYear)
	require.Len(t, f.Connections, 1)
	assert.Equal(t, "PENDING", f.Connections[0].Status)
}
