package chat

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"sync"
	"time"
)

var _ chatRepo = &chatRepoMock{}

type chatRepoMock struct {
	GetOrCreateFunc   func(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	ListByUserFunc    func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error)
	AppendMessageFunc func(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListMessagesFunc  func(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error)

	calls struct {
		GetOrCreate []struct {
			Ctx   context.Context
			Pair  domain.Pair
			NewID uuid.UUID
			Now   time.Time
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		ListByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
		}
		AppendMessage []struct {
			Ctx context.Context
			M   *domain.Message
		}
		ListMessages []struct {
			Ctx context.Context
			F   domain.MessageFilter
		}
	}
	lockGetOrCreate   sync.RWMutex
	lockGetByID       sync.RWMutex
	lockListByUser    sync.RWMutex
	lockAppendMessage sync.RWMutex
	lockListMessages  sync.RWMutex
}

func (mock *chatRepoMock) GetOrCreate(ctx context.Context, pair domain.Pair, newID uuid.UUID, now time.Time) (*domain.Chat, error) {
	if mock.GetOrCreateFunc == nil {
		panic("chatRepoMock.GetOrCreateFunc: method is nil but chatRepo.GetOrCreate was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Pair  domain.Pair
		NewID uuid.UUID
		Now   time.Time
	}{
		Ctx:   ctx,
		Pair:  pair,
		NewID: newID,
		Now:   now,
	}
	mock.lockGetOrCreate.Lock()
	mock.calls.GetOrCreate = append(mock.calls.GetOrCreate, callInfo)
	mock.lockGetOrCreate.Unlock()
	return mock.GetOrCreateFunc(ctx, pair, newID, now)
}

func (mock *chatRepoMock) GetOrCreateCalls() []struct {
	Ctx   context.Context
	Pair  domain.Pair
	NewID uuid.UUID
	Now   time.Time
} {
	mock.lockGetOrCreate.RLock()
	calls := mock.calls.GetOrCreate
	mock.lockGetOrCreate.RUnlock()
	return calls
}

func (mock *chatRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	if mock.GetByIDFunc == nil {
		panic("chatRepoMock.GetByIDFunc: method is nil but chatRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *chatRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *chatRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Chat, error) {
	if mock.ListByUserFunc == nil {
		panic("chatRepoMock.ListByUserFunc: method is nil but chatRepo.ListByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Limit  int
	}{
		Ctx:    ctx,
		UserID: userID,
		Limit:  limit,
	}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, callInfo)
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID, limit)
}

func (mock *chatRepoMock) ListByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
} {
	mock.lockListByUser.RLock()
	calls := mock.calls.ListByUser
	mock.lockListByUser.RUnlock()
	return calls
}

func (mock *chatRepoMock) AppendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if mock.AppendMessageFunc == nil {
		panic("chatRepoMock.AppendMessageFunc: method is nil but chatRepo.AppendMessage was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   *domain.Message
	}{
		Ctx: ctx,
		M:   m,
	}
	mock.lockAppendMessage.Lock()
	mock.calls.AppendMessage = append(mock.calls.AppendMessage, callInfo)
	mock.lockAppendMessage.Unlock()
	return mock.AppendMessageFunc(ctx, m)
}

func (mock *chatRepoMock) AppendMessageCalls() []struct {
	Ctx context.Context
	M   *domain.Message
} {
	mock.lockAppendMessage.RLock()
	calls := mock.calls.AppendMessage
	mock.lockAppendMessage.RUnlock()
	return calls
}

func (mock *chatRepoMock) ListMessages(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error) {
	if mock.ListMessagesFunc == nil {
		panic("chatRepoMock.ListMessagesFunc: method is nil but chatRepo.ListMessages was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.MessageFilter
	}{
		Ctx: ctx,
		F:   f,
	}
	mock.lockListMessages.Lock()
	mock.calls.ListMessages = append(mock.calls.ListMessages, callInfo)
	mock.lockListMessages.Unlock()
	return mock.ListMessagesFunc(ctx, f)
}

func (mock *chatRepoMock) ListMessagesCalls() []struct {
	Ctx context.Context
	F   domain.MessageFilter
} {
	mock.lockListMessages.RLock()
	calls := mock.calls.ListMessages
	mock.lockListMessages.RUnlock()
	return calls
}
