package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres"
	"github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres/chat"
	"github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres/connection"
	"github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres/notification"
	"github.com/heartmarshall/alumni-network-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/alumni-network-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/alumni-network-backend/internal/config"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

// ConnectionStore is the connection graph storage shared by the services
// and the maintenance jobs.
type ConnectionStore interface {
	Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error)
	Decide(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus, decidedAt time.Time) (*domain.Connection, error)
	PruneRejected(ctx context.Context, before time.Time) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error)
	FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error)
	LatestRejectedBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error)
	List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error)
	RelatedUserIDs(ctx context.Context, userID uuid.UUID, rejectedSince time.Time) ([]uuid.UUID, error)
}

// UserStore is the identity directory.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.User, error)
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
}

// ChatStore holds chats and their messages.
type ChatStore interface {
	GetOrCreate(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error)
	AppendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error)
}

// NotificationStore holds per-user notifications.
type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) error
	MarkRead(ctx context.Context, id, recipientID uuid.UUID, at time.Time) (*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	List(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, error)
}

// AuditStore appends audit records.
type AuditStore interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

// TxRunner runs fn inside one transaction carried by ctx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Connections   ConnectionStore
	Users         UserStore
	Chats         ChatStore
	Notifications NotificationStore
	Audit         AuditStore
	Tx            TxRunner
	Pinger        interface{ Ping(ctx context.Context) error }

	close func()
}

// Close releases the backend's connections.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured backend and, when enabled, applies
// migrations first.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DSN, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info("storage ready", slog.String("driver", config.DriverPostgres))
	return &Store{
		Connections:   connection.New(pool),
		Users:         user.New(pool),
		Chats:         chat.New(pool),
		Notifications: notification.New(pool),
		Audit:         audit.New(pool),
		Tx:            postgres.NewTxManager(pool),
		Pinger:        pool,
		close:         pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, log); err != nil {
			db.Close() //nolint:errcheck
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("storage ready", slog.String("driver", config.DriverSQLite), slog.String("path", cfg.SQLitePath))
	return &Store{
		Connections:   sqlite.NewConnectionRepo(db),
		Users:         sqlite.NewUserRepo(db),
		Chats:         sqlite.NewChatRepo(db),
		Notifications: sqlite.NewNotificationRepo(db),
		Audit:         sqlite.NewAuditRepo(db),
		Tx:            sqlite.NewTxManager(db),
		Pinger:        db,
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("close sqlite", slog.String("error", err.Error()))
			}
		},
	}, nil
}
