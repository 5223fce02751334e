package notification

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"sync"
	"time"
)

var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	ListFunc        func(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, error)
	CountUnreadFunc func(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkReadFunc    func(ctx context.Context, id uuid.UUID, recipientID uuid.UUID, at time.Time) (*domain.Notification, error)

	calls struct {
		List []struct {
			Ctx context.Context
			F   domain.NotificationFilter
		}
		CountUnread []struct {
			Ctx         context.Context
			RecipientID uuid.UUID
		}
		MarkRead []struct {
			Ctx         context.Context
			ID          uuid.UUID
			RecipientID uuid.UUID
			At          time.Time
		}
	}
	lockList        sync.RWMutex
	lockCountUnread sync.RWMutex
	lockMarkRead    sync.RWMutex
}

func (mock *notificationRepoMock) List(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, error) {
	if mock.ListFunc == nil {
		panic("notificationRepoMock.ListFunc: method is nil but notificationRepo.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.NotificationFilter
	}{
		Ctx: ctx,
		F:   f,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *notificationRepoMock) ListCalls() []struct {
	Ctx context.Context
	F   domain.NotificationFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *notificationRepoMock) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	if mock.CountUnreadFunc == nil {
		panic("notificationRepoMock.CountUnreadFunc: method is nil but notificationRepo.CountUnread was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		RecipientID uuid.UUID
	}{
		Ctx:         ctx,
		RecipientID: recipientID,
	}
	mock.lockCountUnread.Lock()
	mock.calls.CountUnread = append(mock.calls.CountUnread, callInfo)
	mock.lockCountUnread.Unlock()
	return mock.CountUnreadFunc(ctx, recipientID)
}

func (mock *notificationRepoMock) CountUnreadCalls() []struct {
	Ctx         context.Context
	RecipientID uuid.UUID
} {
	mock.lockCountUnread.RLock()
	calls := mock.calls.CountUnread
	mock.lockCountUnread.RUnlock()
	return calls
}

func (mock *notificationRepoMock) MarkRead(ctx context.Context, id uuid.UUID, recipientID uuid.UUID, at time.Time) (*domain.Notification, error) {
	if mock.MarkReadFunc == nil {
		panic("notificationRepoMock.MarkReadFunc: method is nil but notificationRepo.MarkRead was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		ID          uuid.UUID
		RecipientID uuid.UUID
		At          time.Time
	}{
		Ctx:         ctx,
		ID:          id,
		RecipientID: recipientID,
		At:          at,
	}
	mock.lockMarkRead.Lock()
	mock.calls.MarkRead = append(mock.calls.MarkRead, callInfo)
	mock.lockMarkRead.Unlock()
	return mock.MarkReadFunc(ctx, id, recipientID, at)
}

func (mock *notificationRepoMock) MarkReadCalls() []struct {
	Ctx         context.Context
	ID          uuid.UUID
	RecipientID uuid.UUID
	At          time.Time
} {
	mock.lockMarkRead.RLock()
	calls := mock.calls.MarkRead
	mock.lockMarkRead.RUnlock()
	return calls
}
