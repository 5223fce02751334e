package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
	"github.com/heartmarshall/alumni-network-backend/internal/transport/dataloader"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

type connectionService interface {
	SendRequest(ctx context.Context, input connection.SendRequestInput) (*domain.Connection, error)
	AcceptRequest(ctx context.Context, input connection.DecideRequestInput) (*domain.Connection, error)
	RejectRequest(ctx context.Context, input connection.DecideRequestInput) (*domain.Connection, error)
	ListMyConnections(ctx context.Context, input connection.ListInput) (*connection.Page, error)
	ConnectionStatus(ctx context.Context, otherUserID uuid.UUID) (*connection.StatusResult, error)
}

// ConnectionHandler serves the connection request endpoints.
type ConnectionHandler struct {
	svc connectionService
	log *slog.Logger
}

// NewConnectionHandler creates a ConnectionHandler.
func NewConnectionHandler(svc connectionService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{svc: svc, log: logger.With("handler", "connection")}
}

type sendRequestBody struct {
	RecipientID uuid.UUID `json:"recipientId"`
}

// Send creates a pending connection request.
// POST /api/v1/connections
func (h *ConnectionHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body sendRequestBody
	if err := decodeJSON(r, &body); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	conn, err := h.svc.SendRequest(r.Context(), connection.SendRequestInput{RecipientID: body.RecipientID})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConnectionDTO(conn))
}

// Accept accepts a pending request addressed to the caller.
// POST /api/v1/connections/{id}/accept
func (h *ConnectionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.AcceptRequest)
}

// Reject rejects a pending request addressed to the caller.
// POST /api/v1/connections/{id}/reject
func (h *ConnectionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.RejectRequest)
}

func (h *ConnectionHandler) decide(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, connection.DecideRequestInput) (*domain.Connection, error),
) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	conn, err := fn(r.Context(), connection.DecideRequestInput{ConnectionID: id})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toConnectionDTO(conn))
}

// List returns one page of the caller's connections with counterpart profiles.
// GET /api/v1/connections?role=ACCEPTED&limit=20&cursor=...
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	role := domain.ConnectionRole(r.URL.Query().Get("role"))
	if role == "" {
		role = domain.ConnectionRoleAccepted
	}

	page, err := h.svc.ListMyConnections(ctx, connection.ListInput{
		Role:   role,
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	viewerID, _ := ctxutil.UserIDFromCtx(ctx)
	counterparts := make([]uuid.UUID, 0, len(page.Items))
	for i := range page.Items {
		if other, ok := domain.Counterpart(&page.Items[i], viewerID); ok {
			counterparts = append(counterparts, other)
		}
	}
	profiles, err := dataloader.FromContext(ctx).LoadUsers(ctx, counterparts)
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	out := ConnectionPageDTO{Items: make([]ConnectionDTO, 0, len(page.Items)), NextCursor: page.NextCursor}
	for i := range page.Items {
		dto := toConnectionDTO(&page.Items[i])
		if other, ok := domain.Counterpart(&page.Items[i], viewerID); ok {
			dto.Counterpart = toUserDTO(profiles[other])
		}
		out.Items = append(out.Items, dto)
	}

	writeJSON(w, http.StatusOK, out)
}

// Status reports the caller's relationship with another user.
// GET /api/v1/connections/status/{userId}
func (h *ConnectionHandler) Status(w http.ResponseWriter, r *http.Request) {
	other, err := pathUUID(r, "userId")
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	res, err := h.svc.ConnectionStatus(r.Context(), other)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	dto := StatusDTO{UserID: other, Status: res.Status.String()}
	if res.Connection != nil {
		dto.ConnectionID = &res.Connection.ID
	}
	writeJSON(w, http.StatusOK, dto)
}
