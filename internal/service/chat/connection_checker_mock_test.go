package chat

import (
	"context"
	"github.com/google/uuid"
	"sync"
)

var _ connectionChecker = &connectionCheckerMock{}

type connectionCheckerMock struct {
	AreConnectedFunc func(ctx context.Context, a uuid.UUID, b uuid.UUID) (bool, error)

	calls struct {
		AreConnected []struct {
			Ctx context.Context
			A   uuid.UUID
			B   uuid.UUID
		}
	}
	lockAreConnected sync.RWMutex
}

func (mock *connectionCheckerMock) AreConnected(ctx context.Context, a uuid.UUID, b uuid.UUID) (bool, error) {
	if mock.AreConnectedFunc == nil {
		panic("connectionCheckerMock.AreConnectedFunc: method is nil but connectionChecker.AreConnected was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   uuid.UUID
		B   uuid.UUID
	}{
		Ctx: ctx,
		A:   a,
		B:   b,
	}
	mock.lockAreConnected.Lock()
	mock.calls.AreConnected = append(mock.calls.AreConnected, callInfo)
	mock.lockAreConnected.Unlock()
	return mock.AreConnectedFunc(ctx, a, b)
}

func (mock *connectionCheckerMock) AreConnectedCalls() []struct {
	Ctx context.Context
	A   uuid.UUID
	B   uuid.UUID
} {
	mock.lockAreConnected.RLock()
	calls := mock.calls.AreConnected
	mock.lockAreConnected.RUnlock()
	return calls
}
