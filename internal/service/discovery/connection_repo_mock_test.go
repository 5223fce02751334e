package discovery

import (
	"context"
	"github.com/google/uuid"
	"sync"
	"time"
)

var _ connectionRepo = &connectionRepoMock{}

type connectionRepoMock struct {
	RelatedUserIDsFunc func(ctx context.Context, userID uuid.UUID, rejectedSince time.Time) ([]uuid.UUID, error)

	calls struct {
		RelatedUserIDs []struct {
			Ctx           context.Context
			UserID        uuid.UUID
			RejectedSince time.Time
		}
	}
	lockRelatedUserIDs sync.RWMutex
}

func (mock *connectionRepoMock) RelatedUserIDs(ctx context.Context, userID uuid.UUID, rejectedSince time.Time) ([]uuid.UUID, error) {
	if mock.RelatedUserIDsFunc == nil {
		panic("connectionRepoMock.RelatedUserIDsFunc: method is nil but connectionRepo.RelatedUserIDs was just called")
	}
	callInfo := struct {
		Ctx           context.Context
		UserID        uuid.UUID
		RejectedSince time.Time
	}{
		Ctx:           ctx,
		UserID:        userID,
		RejectedSince: rejectedSince,
	}
	mock.lockRelatedUserIDs.Lock()
	mock.calls.RelatedUserIDs = append(mock.calls.RelatedUserIDs, callInfo)
	mock.lockRelatedUserIDs.Unlock()
	return mock.RelatedUserIDsFunc(ctx, userID, rejectedSince)
}

func (mock *connectionRepoMock) RelatedUserIDsCalls() []struct {
	Ctx           context.Context
	UserID        uuid.UUID
	RejectedSince time.Time
} {
	mock.lockRelatedUserIDs.RLock()
	calls := mock.calls.RelatedUserIDs
	mock.lockRelatedUserIDs.RUnlock()
	return calls
}
