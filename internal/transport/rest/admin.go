package rest

import (
	"context"
	"log/slog"
	"net/http"
)

type rejectedPruneJob interface {
	Run(ctx context.Context) (int64, error)
}

// AdminHandler serves maintenance endpoints. Routes are wrapped with
// middleware.RequireAdmin.
type AdminHandler struct {
	prune rejectedPruneJob
	log   *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(prune rejectedPruneJob, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{prune: prune, log: logger.With("handler", "admin")}
}

// PruneResponse reports how many rejected edges were removed.
type PruneResponse struct {
	Deleted int64 `json:"deleted"`
}

// PruneRejected runs the rejected-connection prune job once.
// POST /api/v1/admin/maintenance/prune-rejected
func (h *AdminHandler) PruneRejected(w http.ResponseWriter, r *http.Request) {
	n, err := h.prune.Run(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, PruneResponse{Deleted: n})
}
