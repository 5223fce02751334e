package user

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/alumni-network-backend/internal/service/connection"
	"sync"
)

var _ relationshipReader = &relationshipReaderMock{}

type relationshipReaderMock struct {
	ConnectionStatusFunc func(ctx context.Context, otherUserID uuid.UUID) (*connection.StatusResult, error)

	calls struct {
		ConnectionStatus []struct {
			Ctx         context.Context
			OtherUserID uuid.UUID
		}
	}
	lockConnectionStatus sync.RWMutex
}

func (mock *relationshipReaderMock) ConnectionStatus(ctx context.Context, otherUserID uuid.UUID) (*connection.StatusResult, error) {
	if mock.ConnectionStatusFunc == nil {
		panic("relationshipReaderMock.ConnectionStatusFunc: method is nil but relationshipReader.ConnectionStatus was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		OtherUserID uuid.UUID
	}{
		Ctx:         ctx,
		OtherUserID: otherUserID,
	}
	mock.lockConnectionStatus.Lock()
	mock.calls.ConnectionStatus = append(mock.calls.ConnectionStatus, callInfo)
	mock.lockConnectionStatus.Unlock()
	return mock.ConnectionStatusFunc(ctx, otherUserID)
}

func (mock *relationshipReaderMock) ConnectionStatusCalls() []struct {
	Ctx         context.Context
	OtherUserID uuid.UUID
} {
	mock.lockConnectionStatus.RLock()
	calls := mock.calls.ConnectionStatus
	mock.lockConnectionStatus.RUnlock()
	return calls
}
