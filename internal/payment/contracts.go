package payment

import (
	"context"

	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/kit/broker"
	"restopos/kit/gateway"
)

// OrderContract define the order lookup the initiator needs.
type OrderContract interface {
	Get(ctx context.Context, id uint64) (*order.Order, error)
}

// LedgerContract define the append responsibility for new attempts.
type LedgerContract interface {
	RecordInitiated(ctx context.Context, a *ledger.PaymentAttempt) error
}

// CheckoutContract define the hosted-checkout initiation call.
type CheckoutContract interface {
	Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error)
}

// PushContract define the mobile-money push call.
type PushContract interface {
	Push(ctx context.Context, req gateway.PushRequest) (*gateway.PushResponse, error)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}

// ServiceContract define the initiator responsibility.
type ServiceContract interface {
	Initiate(ctx context.Context, orderID uint64, method ledger.Method, contact Contact) (*Initiation, error)
}
