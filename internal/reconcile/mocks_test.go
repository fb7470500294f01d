package reconcile

import (
	"context"

	"github.com/stretchr/testify/mock"

	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/kit/gateway"
)

type OrderMock struct {
	mock.Mock
	OrderContract
}

func (m *OrderMock) Get(ctx context.Context, id uint64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderMock) MarkPaid(ctx context.Context, id uint64, method order.Method) (*order.Order, error) {
	args := m.Called(ctx, id, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type LedgerMock struct {
	mock.Mock
	LedgerContract
}

func (m *LedgerMock) Get(ctx context.Context, reference string) (*ledger.PaymentAttempt, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentAttempt), args.Error(1)
}

func (m *LedgerMock) TryReconcile(ctx context.Context, reference, providerTxID string) (*ledger.PaymentAttempt, error) {
	args := m.Called(ctx, reference, providerTxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentAttempt), args.Error(1)
}

func (m *LedgerMock) MarkFailed(ctx context.Context, reference, reason string) error {
	args := m.Called(ctx, reference, reason)
	return args.Error(0)
}

type VerifierMock struct {
	mock.Mock
	VerifierContract
}

func (m *VerifierMock) Verify(ctx context.Context, reference string) (*gateway.VerifyResponse, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.VerifyResponse), args.Error(1)
}

type RecoveryMock struct {
	mock.Mock
	RecoveryContract
}

func (m *RecoveryMock) QueueRetry(ctx context.Context, reference, reason string) {
	m.Called(ctx, reference, reason)
}
