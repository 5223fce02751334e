package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/notification"
)

type notificationService interface {
	ListNotifications(ctx context.Context, input notification.ListInput) (*notification.Page, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notification")}
}

// List returns one page of notifications.
// GET /api/v1/notifications?unread=true&limit=20&cursor=...
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}
	unread, err := queryBool(r, "unread")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	page, err := h.svc.ListNotifications(ctx, notification.ListInput{
		UnreadOnly: unread,
		Limit:      limit,
		Cursor:     r.URL.Query().Get("cursor"),
	})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	out := NotificationPageDTO{
		Items:       make([]NotificationDTO, 0, len(page.Items)),
		NextCursor:  page.NextCursor,
		UnreadCount: page.UnreadCount,
	}
	for i := range page.Items {
		out.Items = append(out.Items, toNotificationDTO(&page.Items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// MarkRead marks one of the caller's notifications as read.
// POST /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	n, err := h.svc.MarkRead(r.Context(), id)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationDTO(n))
}
