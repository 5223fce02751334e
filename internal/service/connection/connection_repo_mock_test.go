package connection

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"sync"
	"time"
)

var _ connectionRepo = &connectionRepoMock{}

type connectionRepoMock struct {
	CreateFunc                func(ctx context.Context, c *domain.Connection) (*domain.Connection, error)
	GetByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Connection, error)
	FindActiveBetweenFunc     func(ctx context.Context, a uuid.UUID, b uuid.UUID) (*domain.Connection, error)
	LatestRejectedBetweenFunc func(ctx context.Context, a uuid.UUID, b uuid.UUID) (*domain.Connection, error)
	DecideFunc                func(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus, decidedAt time.Time) (*domain.Connection, error)
	ListFunc                  func(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			C   *domain.Connection
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		FindActiveBetween []struct {
			Ctx context.Context
			A   uuid.UUID
			B   uuid.UUID
		}
		LatestRejectedBetween []struct {
			Ctx context.Context
			A   uuid.UUID
			B   uuid.UUID
		}
		Decide []struct {
			Ctx       context.Context
			ID        uuid.UUID
			Status    domain.ConnectionStatus
			DecidedAt time.Time
		}
		List []struct {
			Ctx context.Context
			F   domain.ConnectionFilter
		}
	}
	lockCreate                sync.RWMutex
	lockGetByID               sync.RWMutex
	lockFindActiveBetween     sync.RWMutex
	lockLatestRejectedBetween sync.RWMutex
	lockDecide                sync.RWMutex
	lockList                  sync.RWMutex
}

func (mock *connectionRepoMock) Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error) {
	if mock.CreateFunc == nil {
		panic("connectionRepoMock.CreateFunc: method is nil but connectionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C   *domain.Connection
	}{
		Ctx: ctx,
		C:   c,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, c)
}

func (mock *connectionRepoMock) CreateCalls() []struct {
	Ctx context.Context
	C   *domain.Connection
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *connectionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	if mock.GetByIDFunc == nil {
		panic("connectionRepoMock.GetByIDFunc: method is nil but connectionRepo.GetByID was just called")
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

func (mock *connectionRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *connectionRepoMock) FindActiveBetween(ctx context.Context, a uuid.UUID, b uuid.UUID) (*domain.Connection, error) {
	if mock.FindActiveBetweenFunc == nil {
		panic("connectionRepoMock.FindActiveBetweenFunc: method is nil but connectionRepo.FindActiveBetween was just called")
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
	mock.lockFindActiveBetween.Lock()
	mock.calls.FindActiveBetween = append(mock.calls.FindActiveBetween, callInfo)
	mock.lockFindActiveBetween.Unlock()
	return mock.FindActiveBetweenFunc(ctx, a, b)
}

func (mock *connectionRepoMock) FindActiveBetweenCalls() []struct {
	Ctx context.Context
	A   uuid.UUID
	B   uuid.UUID
} {
	mock.lockFindActiveBetween.RLock()
	calls := mock.calls.FindActiveBetween
	mock.lockFindActiveBetween.RUnlock()
	return calls
}

func (mock *connectionRepoMock) LatestRejectedBetween(ctx context.Context, a uuid.UUID, b uuid.UUID) (*domain.Connection, error) {
	if mock.LatestRejectedBetweenFunc == nil {
		panic("connectionRepoMock.LatestRejectedBetweenFunc: method is nil but connectionRepo.LatestRejectedBetween was just called")
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
	mock.lockLatestRejectedBetween.Lock()
	mock.calls.LatestRejectedBetween = append(mock.calls.LatestRejectedBetween, callInfo)
	mock.lockLatestRejectedBetween.Unlock()
	return mock.LatestRejectedBetweenFunc(ctx, a, b)
}

func (mock *connectionRepoMock) LatestRejectedBetweenCalls() []struct {
	Ctx context.Context
	A   uuid.UUID
	B   uuid.UUID
} {
	mock.lockLatestRejectedBetween.RLock()
	calls := mock.calls.LatestRejectedBetween
	mock.lockLatestRejectedBetween.RUnlock()
	return calls
}

func (mock *connectionRepoMock) Decide(ctx context.Context, id uuid.UUID, status domain.ConnectionStatus, decidedAt time.Time) (*domain.Connection, error) {
	if mock.DecideFunc == nil {
		panic("connectionRepoMock.DecideFunc: method is nil but connectionRepo.Decide was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ID        uuid.UUID
		Status    domain.ConnectionStatus
		DecidedAt time.Time
	}{
		Ctx:       ctx,
		ID:        id,
		Status:    status,
		DecidedAt: decidedAt,
	}
	mock.lockDecide.Lock()
	mock.calls.Decide = append(mock.calls.Decide, callInfo)
	mock.lockDecide.Unlock()
	return mock.DecideFunc(ctx, id, status, decidedAt)
}

func (mock *connectionRepoMock) DecideCalls() []struct {
	Ctx       context.Context
	ID        uuid.UUID
	Status    domain.ConnectionStatus
	DecidedAt time.Time
} {
	mock.lockDecide.RLock()
	calls := mock.calls.Decide
	mock.lockDecide.RUnlock()
	return calls
}

func (mock *connectionRepoMock) List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error) {
	if mock.ListFunc == nil {
		panic("connectionRepoMock.ListFunc: method is nil but connectionRepo.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.ConnectionFilter
	}{
		Ctx: ctx,
		F:   f,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *connectionRepoMock) ListCalls() []struct {
	Ctx context.Context
	F   domain.ConnectionFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
