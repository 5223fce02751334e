package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

// allPhases defines the canonical execution order.
var allPhases = []string{"users", "connections"}

// UserUpserter writes directory members.
type UserUpserter interface {
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
}

// ConnectionService drives the connection state machine.
type ConnectionService interface {
	SendRequest(ctx context.Context, input connection.SendRequestInput) (*domain.Connection, error)
	AcceptRequest(ctx context.Context, input connection.DecideRequestInput) (*domain.Connection, error)
	RejectRequest(ctx context.Context, input connection.DecideRequestInput) (*domain.Connection, error)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline seeds a demo network. Connections go through the connection
// service so seeded edges obey the same invariants as live traffic.
type Pipeline struct {
	log         *slog.Logger
	users       UserUpserter
	connections ConnectionService
	cfg         Config
	fixture     *Fixture
	ids         map[string]uuid.UUID
	results     map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, users UserUpserter, connections ConnectionService, cfg Config, fixture *Fixture) *Pipeline {
	return &Pipeline{
		log:         log,
		users:       users,
		connections: connections,
		cfg:         cfg,
		fixture:     fixture,
		ids:         make(map[string]uuid.UUID),
		results:     make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases run.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
			}
		}
		toRun = filtered
	}

	for _, phase := range toRun {
		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "users":
			result = p.runUsers(ctx)
		case "connections":
			result = p.runConnections(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			continue
		}
		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("inserted", result.Inserted),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", result.Errors),
			slog.Duration("duration", result.Duration),
		)
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func (p *Pipeline) runUsers(ctx context.Context) PhaseResult {
	var result PhaseResult
	for _, fu := range p.fixture.Users {
		u, err := toDomainUser(fu)
		if err != nil {
			p.log.Warn("invalid fixture user", slog.String("email", fu.Email), slog.String("error", err.Error()))
			result.Errors++
			continue
		}
		if p.cfg.DryRun {
			p.ids[u.Email] = u.ID
			result.Skipped++
			continue
		}

		saved, err := p.users.Upsert(ctx, u)
		if err != nil {
			return PhaseResult{Err: fmt.Errorf("upsert user %s: %w", fu.Email, err)}
		}
		p.ids[saved.Email] = saved.ID
		result.Inserted++
	}
	return result
}

func (p *Pipeline) runConnections(ctx context.Context) PhaseResult {
	var result PhaseResult
	for _, fc := range p.fixture.Connections {
		from, okFrom := p.ids[normalizeEmail(fc.From)]
		to, okTo := p.ids[normalizeEmail(fc.To)]
		if !okFrom || !okTo {
			p.log.Warn("connection references unknown user", slog.String("from", fc.From), slog.String("to", fc.To))
			result.Errors++
			continue
		}
		if p.cfg.DryRun {
			result.Skipped++
			continue
		}

		err := p.seedConnection(ctx, from, to, domain.ConnectionStatus(strings.ToUpper(fc.Status)))
		switch {
		case err == nil:
			result.Inserted++
		case errors.Is(err, domain.ErrConflict):
			// Already seeded by an earlier run.
			result.Skipped++
		default:
			p.log.Warn("seed connection", slog.String("from", fc.From), slog.String("to", fc.To), slog.String("error", err.Error()))
			result.Errors++
		}
	}
	return result
}

func (p *Pipeline) seedConnection(ctx context.Context, from, to uuid.UUID, status domain.ConnectionStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	conn, err := p.connections.SendRequest(ctxutil.WithUserID(ctx, from), connection.SendRequestInput{RecipientID: to})
	if err != nil {
		return err
	}

	recipientCtx := ctxutil.WithUserID(ctx, to)
	input := connection.DecideRequestInput{ConnectionID: conn.ID}
	switch status {
	case domain.ConnectionStatusAccepted:
		_, err = p.connections.AcceptRequest(recipientCtx, input)
	case domain.ConnectionStatusRejected:
		_, err = p.connections.RejectRequest(recipientCtx, input)
	}
	return err
}

func toDomainUser(fu FixtureUser) (*domain.User, error) {
	email := normalizeEmail(fu.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "required")
	}
	role := domain.UserRole(strings.ToUpper(fu.Role))
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", fmt.Sprintf("unknown role %q", fu.Role))
	}

	u := &domain.User{
		ID:          domain.NewID(),
		Email:       email,
		DisplayName: strings.TrimSpace(fu.DisplayName),
		Role:        role,
		Headline:    optional(fu.Headline),
		Company:     optional(fu.Company),
		Department:  optional(fu.Department),
		CreatedAt:   time.Now().UTC(),
	}
	if u.DisplayName == "" {
		u.DisplayName = email
	}
	if fu.GraduationYear > 0 {
		year := fu.GraduationYear
		u.GraduationYear = &year
	}
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
