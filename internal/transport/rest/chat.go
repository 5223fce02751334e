package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/internal/service/chat"
	"github.com/heartmarshall/alumni-network-backend/internal/transport/dataloader"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

type chatService interface {
	OpenChat(ctx context.Context, input chat.OpenChatInput) (*domain.Chat, error)
	ListChats(ctx context.Context, input chat.ListChatsInput) ([]domain.Chat, error)
	SendMessage(ctx context.Context, input chat.SendMessageInput) (*domain.Message, error)
	ListMessages(ctx context.Context, input chat.ListMessagesInput) (*chat.MessagePage, error)
}

// ChatHandler serves chat and message endpoints.
type ChatHandler struct {
	svc chatService
	log *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc chatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: logger.With("handler", "chat")}
}

type openChatBody struct {
	PeerID uuid.UUID `json:"peerId"`
}

type sendMessageBody struct {
	Content string `json:"content"`
}

// ChatListDTO is the caller's chats, most recent activity first.
type ChatListDTO struct {
	Items []ChatDTO `json:"items"`
}

// Open returns the chat with a connected peer, creating it on first use.
// POST /api/v1/chats
func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body openChatBody
	if err := decodeJSON(r, &body); err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	c, err := h.svc.OpenChat(ctx, chat.OpenChatInput{PeerID: body.PeerID})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	out, err := h.withPeers(ctx, []domain.Chat{*c})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out[0])
}

// List returns the caller's chats.
// GET /api/v1/chats?limit=20
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	chats, err := h.svc.ListChats(ctx, chat.ListChatsInput{Limit: limit})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	items, err := h.withPeers(ctx, chats)
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatListDTO{Items: items})
}

// withPeers renders chats with the profile of the participant who is not the caller.
func (h *ChatHandler) withPeers(ctx context.Context, chats []domain.Chat) ([]ChatDTO, error) {
	viewerID, _ := ctxutil.UserIDFromCtx(ctx)
	peers := make([]uuid.UUID, 0, len(chats))
	for i := range chats {
		peers = append(peers, chats[i].Participants.Other(viewerID))
	}

	profiles, err := dataloader.FromContext(ctx).LoadUsers(ctx, peers)
	if err != nil {
		return nil, err
	}

	out := make([]ChatDTO, 0, len(chats))
	for i := range chats {
		dto := toChatDTO(&chats[i])
		dto.Peer = toUserDTO(profiles[chats[i].Participants.Other(viewerID)])
		out = append(out, dto)
	}
	return out, nil
}

// SendMessage appends a message to a chat the caller takes part in.
// POST /api/v1/chats/{id}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chatID, err := pathUUID(r, "id")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	var body sendMessageBody
	if err := decodeJSON(r, &body); err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	msg, err := h.svc.SendMessage(ctx, chat.SendMessageInput{ChatID: chatID, Content: body.Content})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageDTO(msg))
}

// ListMessages returns one page of a chat's messages, newest first.
// GET /api/v1/chats/{id}/messages?limit=50&before=...
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chatID, err := pathUUID(r, "id")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	page, err := h.svc.ListMessages(ctx, chat.ListMessagesInput{
		ChatID: chatID,
		Limit:  limit,
		Before: r.URL.Query().Get("before"),
	})
	if err != nil {
		handleError(ctx, h.log, w, err)
		return
	}

	out := MessagePageDTO{Items: make([]MessageDTO, 0, len(page.Items)), NextCursor: page.NextCursor}
	for i := range page.Items {
		out.Items = append(out.Items, toMessageDTO(&page.Items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
