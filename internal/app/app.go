package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/alumni-network-backend/internal/auth"
	"github.com/heartmarshall/alumni-network-backend/internal/config"
	"github.com/heartmarshall/alumni-network-backend/internal/scheduler"
	"github.com/heartmarshall/alumni-network-backend/internal/service/chat"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
	"github.com/heartmarshall/alumni-network-backend/internal/service/discovery"
	"github.com/heartmarshall/alumni-network-backend/internal/service/notification"
	"github.com/heartmarshall/alumni-network-backend/internal/service/user"
	"github.com/heartmarshall/alumni-network-backend/internal/transport/dataloader"
	"github.com/heartmarshall/alumni-network-backend/internal/transport/middleware"
	"github.com/heartmarshall/alumni-network-backend/internal/transport/rest"
)

const rateLimiterCleanup = 5 * time.Minute

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	now func() time.Time
}

// WithClock makes every service read the current time from now.
func WithClock(now func() time.Time) HandlerOption {
	return func(o *handlerOptions) { o.now = now }
}

// Run is the application entry point. It loads configuration, opens the
// store, serves HTTP and runs the scheduler until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("driver", cfg.Database.Driver),
	)

	store, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	limiter := middleware.NewRateLimiter(rateLimiterCleanup)
	defer limiter.Stop()

	prune := scheduler.NewPruneRejected(logger, store.Connections, cfg.Network.RejectedRetention)
	handler := NewHandler(cfg, store, logger, limiter, prune)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(logger)
		if err := sched.RegisterPruneRejected(cfg.Scheduler.PruneRejected, prune); err != nil {
			return err
		}
		g.Go(func() error { return sched.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application stopped")
	return nil
}

// NewHandler builds the services over store and returns the HTTP handler
// with the full middleware chain.
func NewHandler(
	cfg *config.Config,
	store *Store,
	logger *slog.Logger,
	limiter *middleware.RateLimiter,
	prune *scheduler.PruneRejected,
	opts ...HandlerOption,
) http.Handler {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		connectionOpts   []connection.Option
		discoveryOpts    []discovery.Option
		chatOpts         []chat.Option
		notificationOpts []notification.Option
	)
	if o.now != nil {
		connectionOpts = append(connectionOpts, connection.WithClock(o.now))
		discoveryOpts = append(discoveryOpts, discovery.WithClock(o.now))
		chatOpts = append(chatOpts, chat.WithClock(o.now))
		notificationOpts = append(notificationOpts, notification.WithClock(o.now))
	}

	connections := connection.NewService(logger, store.Connections, store.Users, store.Notifications, store.Audit, store.Tx,
		connection.Policy{
			RejectionCooldown: cfg.Network.RejectionCooldown,
			PageSize:          cfg.Network.ListMaxLimit,
			DefaultLimit:      cfg.Network.ListDefaultLimit,
			MaxLimit:          cfg.Network.ListMaxLimit,
		}, connectionOpts...)
	discoveries := discovery.NewService(logger, store.Connections, store.Users, discovery.Policy{
		RejectionCooldown: cfg.Network.RejectionCooldown,
		PageSize:          cfg.Network.DiscoveryPageSize,
		DefaultLimit:      cfg.Network.ListDefaultLimit,
		MaxLimit:          cfg.Network.DiscoveryMaxLimit,
	}, discoveryOpts...)
	chats := chat.NewService(logger, store.Chats, connections, store.Audit, store.Tx, chat.Policy{
		MessageMaxLength: cfg.Network.MessageMaxLength,
		DefaultLimit:     cfg.Network.ListDefaultLimit,
		MaxLimit:         cfg.Network.ListMaxLimit,
	}, chatOpts...)
	members := user.NewService(logger, store.Users, connections)
	notifications := notification.NewService(logger, store.Notifications,
		cfg.Network.ListDefaultLimit, cfg.Network.ListMaxLimit, notificationOpts...)

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	var write middleware.Middleware
	if cfg.Server.WriteRateLimit > 0 && limiter != nil {
		write = limiter.Limit(cfg.Server.WriteRateLimit)
	}

	var admin *rest.AdminHandler
	if prune != nil {
		admin = rest.NewAdminHandler(prune, logger)
	}

	return rest.NewRouter(rest.Handlers{
		Health:       rest.NewHealthHandler(store.Pinger, BuildVersion()),
		Connection:   rest.NewConnectionHandler(connections, logger),
		Discovery:    rest.NewDiscoveryHandler(discoveries, logger),
		Chat:         rest.NewChatHandler(chats, logger),
		Notification: rest.NewNotificationHandler(notifications, logger),
		Member:       rest.NewMemberHandler(members, logger),
		Admin:        admin,
	}, rest.RouterOptions{
		Global: middleware.Chain(
			middleware.RequestID(),
			middleware.Logger(logger),
			middleware.Recovery(logger),
			middleware.CORS(cfg.CORS),
		),
		API: middleware.Chain(
			middleware.Auth(jwt),
			dataloader.Middleware(&dataloader.Repos{User: store.Users}),
		),
		Write: write,
	}, logger)
}
