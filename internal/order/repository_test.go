package order

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"restopos/kit/db"
)

func seedOpenOrder(t *testing.T, repo RepositoryContract) *Order {
	t.Helper()
	o := &Order{
		TableNumber: 4,
		WaiterName:  "Alice",
		LineItems:   ugali(),
		Total:       decimal.NewFromInt(1500),
		Status:      StatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestInMemoryRepository_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.Get(ctx, 99)
	require.ErrorIs(t, err, db.ErrNotFound)

	o := seedOpenOrder(t, repo)
	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, got.Status)
	require.True(t, got.Total.Equal(decimal.NewFromInt(1500)))

	// mutations on the returned copy must not leak into the store
	got.Status = StatusPaid
	again, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, again.Status)
}

func TestInMemoryRepository_MarkPaid(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	o := seedOpenOrder(t, repo)

	paid, err := repo.MarkPaid(ctx, o.ID, MethodCard)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
	require.Equal(t, MethodCard, paid.PaymentMethod)

	// second transition loses and must not overwrite the method
	again, err := repo.MarkPaid(ctx, o.ID, MethodCash)
	require.ErrorIs(t, err, ErrAlreadyPaid)
	require.Equal(t, MethodCard, again.PaymentMethod)

	_, err = repo.MarkPaid(ctx, 99, MethodCash)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestInMemoryRepository_MarkPaidConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	o := seedOpenOrder(t, repo)

	methods := []Method{MethodCash, MethodCard, MethodMobileMoney, MethodCash, MethodCard, MethodMobileMoney}
	var wg sync.WaitGroup
	wins := make([]Method, len(methods))
	losses := make([]error, len(methods))

	for i, m := range methods {
		wg.Add(1)
		go func(i int, m Method) {
			defer wg.Done()
			got, err := repo.MarkPaid(ctx, o.ID, m)
			if err == nil {
				wins[i] = got.PaymentMethod
			}
			losses[i] = err
		}(i, m)
	}
	wg.Wait()

	var winners int
	var winner Method
	for i := range methods {
		if losses[i] == nil {
			winners++
			winner = wins[i]
			continue
		}
		require.ErrorIs(t, losses[i], ErrAlreadyPaid)
	}
	require.Equal(t, 1, winners)

	final, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, final.Status)
	require.Equal(t, winner, final.PaymentMethod)
}
