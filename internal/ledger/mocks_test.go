package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type RepositoryMock struct {
	mock.Mock
	RepositoryContract
}

func (m *RepositoryMock) RecordInitiated(ctx context.Context, a *PaymentAttempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *RepositoryMock) Get(ctx context.Context, reference string) (*PaymentAttempt, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentAttempt), args.Error(1)
}

func (m *RepositoryMock) ByOrder(ctx context.Context, orderID uint64) ([]PaymentAttempt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PaymentAttempt), args.Error(1)
}

func (m *RepositoryMock) TryReconcile(ctx context.Context, reference, providerTxID string) (*PaymentAttempt, error) {
	args := m.Called(ctx, reference, providerTxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentAttempt), args.Error(1)
}

func (m *RepositoryMock) MarkFailed(ctx context.Context, reference, reason string) error {
	args := m.Called(ctx, reference, reason)
	return args.Error(0)
}
