package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/user"
)

type memberService interface {
	GetProfile(ctx context.Context) (*domain.User, error)
	GetMember(ctx context.Context, id uuid.UUID) (*user.MemberView, error)
}

// MemberHandler serves read-only member profiles.
type MemberHandler struct {
	svc memberService
	log *slog.Logger
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(svc memberService, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, log: logger.With("handler", "member")}
}

// MemberDTO is a profile plus the caller's relationship to it.
type MemberDTO struct {
	UserDTO
	Relationship string     `json:"relationship"`
	ConnectionID *uuid.UUID `json:"connectionId,omitempty"`
}

// Me returns the caller's own profile.
// GET /api/v1/me
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

// Get returns another member's profile.
// GET /api/v1/users/{id}
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	view, err := h.svc.GetMember(r.Context(), id)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	dto := MemberDTO{UserDTO: *toUserDTO(view.User), Relationship: view.Relationship.String()}
	if view.Connection != nil {
		dto.ConnectionID = &view.Connection.ID
	}
	writeJSON(w, http.StatusOK, dto)
}
