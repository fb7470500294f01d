package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"restopos/kit/db"
	"restopos/kit/observability"
)

func ugali() []LineItem {
	return []LineItem{
		{ItemID: 1, Name: "Ugali Beef", UnitPrice: decimal.NewFromInt(650), Quantity: 2},
		{ItemID: 2, Name: "Soda", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
	}
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	metricsKit := observability.NewMetrics()

	var tests = []struct {
		name        string
		req         CreateRequest
		service     func() ServiceContract
		expectedErr error
		assert      func(t *testing.T, o *Order)
	}{
		{
			name: "invalid request",
			req:  CreateRequest{TableNumber: 0, WaiterName: "Alice", LineItems: ugali()},
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				return NewService(repo, nil, metricsKit)
			},
			expectedErr: db.ErrInvalid,
		},
		{
			name: "zero quantity line item",
			req: CreateRequest{TableNumber: 4, WaiterName: "Alice", LineItems: []LineItem{
				{ItemID: 1, Name: "Ugali Beef", UnitPrice: decimal.NewFromInt(650), Quantity: 0},
			}},
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				return NewService(repo, nil, metricsKit)
			},
			expectedErr: db.ErrInvalid,
		},
		{
			name: "repo create error",
			req:  CreateRequest{TableNumber: 4, WaiterName: "Alice", LineItems: ugali()},
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(db.ErrInternal)
				return NewService(repo, nil, metricsKit)
			},
			expectedErr: db.ErrInternal,
		},
		{
			name: "success computes total once",
			req:  CreateRequest{TableNumber: 4, WaiterName: "Alice", LineItems: ugali()},
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
				return NewService(repo, nil, metricsKit)
			},
			assert: func(t *testing.T, o *Order) {
				require.Equal(t, StatusOpen, o.Status)
				require.True(t, o.Total.Equal(decimal.NewFromInt(1500)), "total = %s", o.Total)
				require.Empty(t, o.PaymentMethod)
				require.False(t, o.CreatedAt.IsZero())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.service()
			o, err := svc.Create(ctx, tt.req)
			if tt.expectedErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			tt.assert(t, o)
		})
	}
}

func TestOrderService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	metricsKit := observability.NewMetrics()

	var tests = []struct {
		name        string
		method      Method
		service     func() ServiceContract
		expectedErr error
	}{
		{
			name:   "invalid method",
			method: Method("cheque"),
			service: func() ServiceContract {
				return NewService(new(RepositoryMock), nil, metricsKit)
			},
			expectedErr: db.ErrInvalid,
		},
		{
			name:   "not found",
			method: MethodCash,
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				repo.On("MarkPaid", ctx, uint64(7), MethodCash).Return((*Order)(nil), db.ErrNotFound)
				return NewService(repo, nil, metricsKit)
			},
			expectedErr: db.ErrNotFound,
		},
		{
			name:   "already paid surfaces winner",
			method: MethodCash,
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				paid := &Order{ID: 7, Status: StatusPaid, PaymentMethod: MethodCard}
				repo.On("MarkPaid", ctx, uint64(7), MethodCash).Return(paid, ErrAlreadyPaid)
				return NewService(repo, nil, metricsKit)
			},
			expectedErr: ErrAlreadyPaid,
		},
		{
			name:   "success publishes order.paid",
			method: MethodCard,
			service: func() ServiceContract {
				repo := new(RepositoryMock)
				pub := new(PublisherMock)
				paid := &Order{ID: 7, Status: StatusPaid, PaymentMethod: MethodCard, Total: decimal.NewFromInt(1500)}
				repo.On("MarkPaid", ctx, uint64(7), MethodCard).Return(paid, nil)
				pub.On("Publish", ctx, mock.Anything).Return([]error(nil))
				return NewService(repo, pub, metricsKit)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.service()
			o, err := svc.MarkPaid(ctx, 7, tt.method)
			if tt.expectedErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, StatusPaid, o.Status)
		})
	}
}
