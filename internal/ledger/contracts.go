package ledger

import "context"

// RepositoryContract define ledger persistence responsibility. TryReconcile
// is the idempotency gate: atomic under concurrent callers on the same
// reference, and it refuses a second Reconciled entry for the same order.
type RepositoryContract interface {
	RecordInitiated(ctx context.Context, a *PaymentAttempt) error
	Get(ctx context.Context, reference string) (*PaymentAttempt, error)
	ByOrder(ctx context.Context, orderID uint64) ([]PaymentAttempt, error)
	TryReconcile(ctx context.Context, reference, providerTxID string) (*PaymentAttempt, error)
	MarkFailed(ctx context.Context, reference, reason string) error
}

// ServiceContract define ledger service responsibility.
type ServiceContract interface {
	RecordInitiated(ctx context.Context, a *PaymentAttempt) error
	Get(ctx context.Context, reference string) (*PaymentAttempt, error)
	ByOrder(ctx context.Context, orderID uint64) ([]PaymentAttempt, error)
	TryReconcile(ctx context.Context, reference, providerTxID string) (*PaymentAttempt, error)
	MarkFailed(ctx context.Context, reference, reason string) error
}
