package discovery

import (
	"context"
	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"sync"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	ListCandidatesFunc func(ctx context.Context, f domain.CandidateFilter) ([]domain.User, error)

	calls struct {
		ListCandidates []struct {
			Ctx context.Context
			F   domain.CandidateFilter
		}
	}
	lockListCandidates sync.RWMutex
}

func (mock *userRepoMock) ListCandidates(ctx context.Context, f domain.CandidateFilter) ([]domain.User, error) {
	if mock.ListCandidatesFunc == nil {
		panic("userRepoMock.ListCandidatesFunc: method is nil but userRepo.ListCandidates was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.CandidateFilter
	}{
		Ctx: ctx,
		F:   f,
	}
	mock.lockListCandidates.Lock()
	mock.calls.ListCandidates = append(mock.calls.ListCandidates, callInfo)
	mock.lockListCandidates.Unlock()
	return mock.ListCandidatesFunc(ctx, f)
}

func (mock *userRepoMock) ListCandidatesCalls() []struct {
	Ctx context.Context
	F   domain.CandidateFilter
} {
	mock.lockListCandidates.RLock()
	calls := mock.calls.ListCandidates
	mock.lockListCandidates.RUnlock()
	return calls
}
