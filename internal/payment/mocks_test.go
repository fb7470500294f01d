package payment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/kit/broker"
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

type LedgerMock struct {
	mock.Mock
	LedgerContract
}

func (m *LedgerMock) RecordInitiated(ctx context.Context, a *ledger.PaymentAttempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type CheckoutMock struct {
	mock.Mock
	CheckoutContract
}

func (m *CheckoutMock) Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.InitializeResponse), args.Error(1)
}

type PushMock struct {
	mock.Mock
	PushContract
}

func (m *PushMock) Push(ctx context.Context, req gateway.PushRequest) (*gateway.PushResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PushResponse), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
	PublisherContract
}

func (m *PublisherMock) Publish(ctx context.Context, evt broker.Event) []error {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]error)
}
