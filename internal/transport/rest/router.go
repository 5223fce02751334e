package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heartmarshall/alumni-network-backend/internal/transport/middleware"
)

// Handlers groups every REST handler mounted by NewRouter.
type Handlers struct {
	Health       *HealthHandler
	Connection   *ConnectionHandler
	Discovery    *DiscoveryHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	Member       *MemberHandler
	Admin        *AdminHandler
}

// RouterOptions carries the middleware applied around the API routes.
type RouterOptions struct {
	// Global wraps every route, probes included.
	Global middleware.Middleware
	// API wraps /api/v1 routes (auth, dataloaders).
	API middleware.Middleware
	// Write wraps mutating /api/v1 routes. Nil disables it.
	Write middleware.Middleware
}

// NewRouter mounts all routes.
func NewRouter(h Handlers, opts RouterOptions, log *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.HandleFunc("/live", h.Health.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.API != nil {
		api.Use(mux.MiddlewareFunc(opts.API))
	}

	write := func(fn http.HandlerFunc) http.Handler {
		if opts.Write == nil {
			return fn
		}
		return opts.Write(fn)
	}

	api.Handle("/connections", write(h.Connection.Send)).Methods(http.MethodPost)
	api.HandleFunc("/connections", h.Connection.List).Methods(http.MethodGet)
	api.HandleFunc("/connections/status/{userId}", h.Connection.Status).Methods(http.MethodGet)
	api.Handle("/connections/{id}/accept", write(h.Connection.Accept)).Methods(http.MethodPost)
	api.Handle("/connections/{id}/reject", write(h.Connection.Reject)).Methods(http.MethodPost)

	api.HandleFunc("/me", h.Member.Me).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.Member.Get).Methods(http.MethodGet)

	api.HandleFunc("/discovery", h.Discovery.Suggest).Methods(http.MethodGet)

	api.Handle("/chats", write(h.Chat.Open)).Methods(http.MethodPost)
	api.HandleFunc("/chats", h.Chat.List).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", h.Chat.ListMessages).Methods(http.MethodGet)
	api.Handle("/chats/{id}/messages", write(h.Chat.SendMessage)).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	api.Handle("/notifications/{id}/read", write(h.Notification.MarkRead)).Methods(http.MethodPost)

	if h.Admin != nil {
		api.Handle("/admin/maintenance/prune-rejected",
			middleware.RequireAdmin(http.HandlerFunc(h.Admin.PruneRejected))).Methods(http.MethodPost)
	}

	log.Debug("routes mounted")

	if opts.Global != nil {
		return opts.Global(r)
	}
	return r
}
