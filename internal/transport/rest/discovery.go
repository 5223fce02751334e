package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/discovery"
)

type discoveryService interface {
	Suggest(ctx context.Context, input discovery.SuggestInput) ([]domain.User, error)
}

// DiscoveryHandler serves "people you may know".
type DiscoveryHandler struct {
	svc discoveryService
	log *slog.Logger
}

// NewDiscoveryHandler creates a DiscoveryHandler.
func NewDiscoveryHandler(svc discoveryService, logger *slog.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{svc: svc, log: logger.With("handler", "discovery")}
}

// DiscoveryDTO is the list of suggested members.
type DiscoveryDTO struct {
	Items []UserDTO `json:"items"`
}

// Suggest lists members the caller has no relationship with.
// GET /api/v1/discovery?role=ALUMNI&role=STUDENT&limit=20
func (h *DiscoveryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	var roles []domain.UserRole
	for _, v := range r.URL.Query()["role"] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				roles = append(roles, domain.UserRole(strings.ToUpper(part)))
			}
		}
	}

	users, err := h.svc.Suggest(r.Context(), discovery.SuggestInput{Roles: roles, Limit: limit})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	out := DiscoveryDTO{Items: make([]UserDTO, 0, len(users))}
	for i := range users {
		out.Items = append(out.Items, *toUserDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
