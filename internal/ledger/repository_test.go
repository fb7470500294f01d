package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"restopos/kit/db"
)

func seedAttempt(t *testing.T, repo RepositoryContract, reference string, orderID uint64) *PaymentAttempt {
	t.Helper()
	a := &PaymentAttempt{
		Reference: reference,
		OrderID:   orderID,
		Method:    MethodHostedCheckout,
		Amount:    decimal.NewFromInt(1500),
	}
	require.NoError(t, repo.RecordInitiated(context.Background(), a))
	return a
}

func TestInMemoryRepository_RecordInitiated(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	a := seedAttempt(t, repo, "ORDER_42_1765430839436", 42)
	require.Equal(t, StateInitiated, a.State)
	require.False(t, a.CreatedAt.IsZero())

	// reference is unique per attempt
	err := repo.RecordInitiated(ctx, &PaymentAttempt{
		Reference: "ORDER_42_1765430839436",
		OrderID:   42,
		Method:    MethodHostedCheckout,
		Amount:    decimal.NewFromInt(1500),
	})
	require.ErrorIs(t, err, db.ErrConflict)
}

func TestInMemoryRepository_TryReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown reference", func(t *testing.T) {
		repo := NewInMemoryRepository()
		_, err := repo.TryReconcile(ctx, "ORDER_1_1", "tx_1")
		require.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("first reconcile wins, replay keeps original tx id", func(t *testing.T) {
		repo := NewInMemoryRepository()
		seedAttempt(t, repo, "ORDER_42_1765430839436", 42)

		a, err := repo.TryReconcile(ctx, "ORDER_42_1765430839436", "tx_900")
		require.NoError(t, err)
		require.Equal(t, StateReconciled, a.State)
		require.Equal(t, "tx_900", a.ProviderTransactionID)
		require.False(t, a.ReconciledAt.IsZero())

		replay, err := repo.TryReconcile(ctx, "ORDER_42_1765430839436", "tx_OTHER")
		require.ErrorIs(t, err, ErrAlreadyReconciled)
		require.Equal(t, "tx_900", replay.ProviderTransactionID)
	})

	t.Run("second reference for a settled order is refused", func(t *testing.T) {
		repo := NewInMemoryRepository()
		seedAttempt(t, repo, "ORDER_42_1", 42)
		seedAttempt(t, repo, "ORDER_42_2", 42)

		_, err := repo.TryReconcile(ctx, "ORDER_42_1", "tx_900")
		require.NoError(t, err)

		_, err = repo.TryReconcile(ctx, "ORDER_42_2", "tx_901")
		require.ErrorIs(t, err, ErrOrderSettled)

		// the settled entry is untouched
		a, err := repo.Get(ctx, "ORDER_42_1")
		require.NoError(t, err)
		require.Equal(t, "tx_900", a.ProviderTransactionID)
	})
}

func TestInMemoryRepository_TryReconcileConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	seedAttempt(t, repo, "ORDER_42_1765430839436", 42)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.TryReconcile(ctx, "ORDER_42_1765430839436", "tx_900")
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyReconciled)
	}
	require.Equal(t, 1, winners)
}

func TestInMemoryRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	seedAttempt(t, repo, "ORDER_42_1", 42)

	require.NoError(t, repo.MarkFailed(ctx, "ORDER_42_1", "provider declined"))
	a, err := repo.Get(ctx, "ORDER_42_1")
	require.NoError(t, err)
	require.Equal(t, StateFailed, a.State)
	require.Equal(t, "provider declined", a.Reason)

	// reconciled entries are never demoted
	seedAttempt(t, repo, "ORDER_43_1", 43)
	_, err = repo.TryReconcile(ctx, "ORDER_43_1", "tx_1")
	require.NoError(t, err)
	require.NoError(t, repo.MarkFailed(ctx, "ORDER_43_1", "late failure"))
	a, err = repo.Get(ctx, "ORDER_43_1")
	require.NoError(t, err)
	require.Equal(t, StateReconciled, a.State)

	require.ErrorIs(t, repo.MarkFailed(ctx, "ORDER_99_1", "x"), db.ErrNotFound)
}
