package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

//go:generate moq -out chat_repo_mock_test.go -pkg chat . chatRepo
//go:generate moq -out connection_checker_mock_test.go -pkg chat . connectionChecker
//go:generate moq -out audit_logger_mock_test.go -pkg chat . auditLogger
//go:generate moq -out tx_manager_mock_test.go -pkg chat . txManager

var testPolicy = Policy{MessageMaxLength: 20, DefaultLimit: 20, MaxLimit: 100}

// memoryChats is a chatRepo mock backed by a map keyed by pair.
func memoryChats() *chatRepoMock {
	var mu sync.Mutex
	byPair := map[domain.Pair]*domain.Chat{}
	byID := map[uuid.UUID]*domain.Chat{}

	return &chatRepoMock{
		GetOrCreateFunc: func(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error) {
			mu.Lock()
			defer mu.Unlock()
			if c, ok := byPair[pair]; ok {
				return c, nil
			}
			c := &domain.Chat{ID: newID, Participants: pair, CreatedAt: now}
			byPair[pair] = c
			byID[newID] = c
			return c, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
			mu.Lock()
			defer mu.Unlock()
			if c, ok := byID[id]; ok {
				return c, nil
			}
			return nil, domain.ErrNotFound
		},
		AppendMessageFunc: func(ctx context.Context, m *domain.Message) (*domain.Message, error) {
			created := *m
			return &created, nil
		},
	}
}

func newTestService(chats *chatRepoMock, connected bool) (*Service, *auditLoggerMock) {
	audit := &auditLoggerMock{
		LogFunc: func(ctx context.Context, record domain.AuditRecord) error { return nil },
	}
	conns := &connectionCheckerMock{
		AreConnectedFunc: func(ctx context.Context, a, b uuid.UUID) (bool, error) { return connected, nil },
	}
	tx := &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	}
	return NewService(slog.Default(), chats, conns, audit, tx, testPolicy), audit
}

// ---------------------------------------------------------------------------
// GetOrCreateChat / OpenChat
// ---------------------------------------------------------------------------

func TestGetOrCreateChat_SameChatEitherOrder(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(memoryChats(), true)
	a, b := uuid.New(), uuid.New()

	first, err := svc.GetOrCreateChat(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetOrCreateChat(context.Background(), b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("chat ids differ: %s vs %s", first.ID, second.ID)
	}
	if !first.HasParticipant(a) || !first.HasParticipant(b) {
		t.Errorf("participants: %+v", first.Participants)
	}
}

func TestGetOrCreateChat_Concurrent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(memoryChats(), true)
	a, b := uuid.New(), uuid.New()

	const n = 16
	ids := make([]uuid.UUID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x, y := a, b
			if i%2 == 1 {
				x, y = b, a
			}
			c, err := svc.GetOrCreateChat(context.Background(), x, y)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			ids[i] = c.ID
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("caller %d got chat %s, want %s", i, ids[i], ids[0])
		}
	}
}

func TestGetOrCreateChat_SameUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(memoryChats(), true)
	a := uuid.New()

	if _, err := svc.GetOrCreateChat(context.Background(), a, a); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOpenChat_RequiresConnection(t *testing.T) {
	t.Parallel()

	chats := memoryChats()
	svc, _ := newTestService(chats, false)

	_, err := svc.OpenChat(ctxutil.WithUserID(context.Background(), uuid.New()), OpenChatInput{PeerID: uuid.New()})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(chats.GetOrCreateCalls()) != 0 {
		t.Error("chat must not be created for unconnected users")
	}
}

func TestOpenChat_Success(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(memoryChats(), true)
	me, peer := uuid.New(), uuid.New()

	c, err := svc.OpenChat(ctxutil.WithUserID(context.Background(), me), OpenChatInput{PeerID: peer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Participants != domain.NewPair(me, peer) {
		t.Errorf("participants: got %+v", c.Participants)
	}
}

func TestOpenChat_Unauthorized(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(memoryChats(), true)

	if _, err := svc.OpenChat(context.Background(), OpenChatInput{PeerID: uuid.New()}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// SendMessage
// ---------------------------------------------------------------------------

func seededChat(t *testing.T, svc *Service, a, b uuid.UUID) *domain.Chat {
	t.Helper()
	c, err := svc.GetOrCreateChat(context.Background(), a, b)
	if err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return c
}

func TestSendMessage_Success(t *testing.T) {
	t.Parallel()

	chats := memoryChats()
	svc, audit := newTestService(chats, true)
	a, b := uuid.New(), uuid.New()
	c := seededChat(t, svc, a, b)

	msg, err := svc.SendMessage(ctxutil.WithUserID(context.Background(), a), SendMessageInput{ChatID: c.ID, Content: "  hello  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "  hello  " {
		t.Errorf("content: got %q, want it stored as sent", msg.Content)
	}
	if msg.ID.Version() != 7 {
		t.Errorf("message id version: got %d, want 7", msg.ID.Version())
	}
	if msg.SenderID != a || msg.ChatID != c.ID {
		t.Errorf("unexpected message: %+v", msg)
	}
	if len(audit.LogCalls()) != 1 {
		t.Errorf("Audit Log calls: got %d, want 1", len(audit.LogCalls()))
	}
}

func TestSendMessage_Errors(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		sender  uuid.UUID
		chatID  func(c *domain.Chat) uuid.UUID
		content string
		want    error
	}{
		{"empty", a, func(c *domain.Chat) uuid.UUID { return c.ID }, "", domain.ErrEmptyContent},
		{"blank", a, func(c *domain.Chat) uuid.UUID { return c.ID }, " \t\n ", domain.ErrEmptyContent},
		{"too long", a, func(c *domain.Chat) uuid.UUID { return c.ID }, strings.Repeat("x", 21), domain.ErrValidation},
		{"unknown chat", a, func(c *domain.Chat) uuid.UUID { return uuid.New() }, "hi", domain.ErrNotFound},
		{"not a participant", uuid.New(), func(c *domain.Chat) uuid.UUID { return c.ID }, "hi", domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chats := memoryChats()
			svc, _ := newTestService(chats, true)
			c := seededChat(t, svc, a, b)

			_, err := svc.SendMessage(ctxutil.WithUserID(context.Background(), tt.sender),
				SendMessageInput{ChatID: tt.chatID(c), Content: tt.content})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(chats.AppendMessageCalls()) != 0 {
				t.Error("nothing must be appended")
			}
		})
	}
}

func TestSendMessage_MaxLengthCountsRunes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(memoryChats(), true)
	a, b := uuid.New(), uuid.New()
	c := seededChat(t, svc, a, b)

	_, err := svc.SendMessage(ctxutil.WithUserID(context.Background(), b),
		SendMessageInput{ChatID: c.ID, Content: strings.Repeat("ж", 20)})
	if err != nil {
		t.Fatalf("20 runes must fit: %v", err)
	}
}

func TestSendMessage_IDsFollowAppendOrder(t *testing.T) {
	t.Parallel()

	chats := memoryChats()
	svc, _ := newTestService(chats, true)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	a, b := uuid.New(), uuid.New()
	c := seededChat(t, svc, a, b)

	ctx := ctxutil.WithUserID(context.Background(), a)
	var prev uuid.UUID
	for i := range 50 {
		msg, err := svc.SendMessage(ctx, SendMessageInput{ChatID: c.ID, Content: fmt.Sprintf("m%02d", i)})
		if err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
		if i > 0 && bytes.Compare(msg.ID[:], prev[:]) <= 0 {
			t.Fatalf("message %d id %s does not sort after %s", i, msg.ID, prev)
		}
		prev = msg.ID
	}
}

func TestSendMessage_AuditFailureFails(t *testing.T) {
	t.Parallel()

	svc, audit := newTestService(memoryChats(), true)
	boom := errors.New("boom")
	audit.LogFunc = func(ctx context.Context, record domain.AuditRecord) error { return boom }
	a, b := uuid.New(), uuid.New()
	c := seededChat(t, svc, a, b)

	_, err := svc.SendMessage(ctxutil.WithUserID(context.Background(), a), SendMessageInput{ChatID: c.ID, Content: "hi"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected audit error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListMessages / ListChats
// ---------------------------------------------------------------------------

func TestListMessages_Pagination(t *testing.T) {
	t.Parallel()

	chats := memoryChats()
	svc, _ := newTestService(chats, true)
	a, b := uuid.New(), uuid.New()
	c := seededChat(t, svc, a, b)

	base := time.Now()
	history := make([]domain.Message, 3)
	for i := range history {
		history[i] = domain.Message{ID: uuid.New(), ChatID: c.ID, SenderID: a, Content: "m", CreatedAt: base.Add(-time.Duration(i) * time.Second)}
	}
	chats.ListMessagesFunc = func(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error) {
		start := 0
		if f.Before != nil {
			for i, m := range history {
				if m.ID == f.Before.ID {
					start = i + 1
				}
			}
		}
		return history[start:min(start+f.Limit, len(history))], nil
	}
	ctx := ctxutil.WithUserID(context.Background(), b)

	first, err := svc.ListMessages(ctx, ListMessagesInput{ChatID: c.ID, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Items) != 2 || first.NextCursor == "" {
		t.Fatalf("first page: %d items, cursor %q", len(first.Items), first.NextCursor)
	}

	second, err := svc.ListMessages(ctx, ListMessagesInput{ChatID: c.ID, Limit: 2, Before: first.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Items) != 1 || second.Items[0].ID != history[2].ID || second.NextCursor != "" {
		t.Fatalf("second page: %+v", second)
	}
}

func TestListMessages_ParticipantOnly(t *testing.T) {
	t.Parallel()

	chats := memoryChats()
	svc, _ := newTestService(chats, true)
	c := seededChat(t, svc, uuid.New(), uuid.New())

	_, err := svc.ListMessages(ctxutil.WithUserID(context.Background(), uuid.New()), ListMessagesInput{ChatID: c.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(chats.ListMessagesCalls()) != 0 {
		t.Error("history must not be read for outsiders")
	}
}

func TestListChats(t *testing.T) {
	t.Parallel()

	chats := memoryChats()
	me := uuid.New()
	want := []domain.Chat{{ID: uuid.New(), Participants: domain.NewPair(me, uuid.New())}}
	chats.ListByUserFunc = func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error) {
		return want, nil
	}
	svc, _ := newTestService(chats, true)

	got, err := svc.ListChats(ctxutil.WithUserID(context.Background(), me), ListChatsInput{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID {
		t.Fatalf("unexpected chats: %+v", got)
	}

	call := chats.ListByUserCalls()[0]
	if call.UserID != me || call.Limit != testPolicy.MaxLimit {
		t.Errorf("unexpected call: user %s limit %d", call.UserID, call.Limit)
	}
}
