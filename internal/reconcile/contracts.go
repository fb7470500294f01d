package reconcile

import (
	"context"

	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/kit/broker"
	"restopos/kit/gateway"
)

// OrderContract define the order transition the reconciler drives.
type OrderContract interface {
	Get(ctx context.Context, id uint64) (*order.Order, error)
	MarkPaid(ctx context.Context, id uint64, method order.Method) (*order.Order, error)
}

// LedgerContract define the idempotency gate.
type LedgerContract interface {
	Get(ctx context.Context, reference string) (*ledger.PaymentAttempt, error)
	TryReconcile(ctx context.Context, reference, providerTxID string) (*ledger.PaymentAttempt, error)
	MarkFailed(ctx context.Context, reference, reason string) error
}

// VerifierContract define the provider verification call. Callback payloads
// are never trusted on their own.
type VerifierContract interface {
	Verify(ctx context.Context, reference string) (*gateway.VerifyResponse, error)
}

// RecoveryContract define where unreachable verifications are parked for the
// operator to retry.
type RecoveryContract interface {
	QueueRetry(ctx context.Context, reference, reason string)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}

// ServiceContract define the reconciler responsibility.
type ServiceContract interface {
	Reconcile(ctx context.Context, cb Callback) Outcome
}
