package order

import (
	"context"

	"restopos/kit/broker"
)

// RepositoryContract define order persistence responsibility. MarkPaid is the
// compare-and-set: of any number of concurrent callers exactly one wins the
// Open -> Paid transition, the rest get ErrAlreadyPaid with the winning record.
type RepositoryContract interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id uint64) (*Order, error)
	MarkPaid(ctx context.Context, id uint64, method Method) (*Order, error)
}

// ServiceContract define order service responsibility.
type ServiceContract interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	Get(ctx context.Context, id uint64) (*Order, error)
	MarkPaid(ctx context.Context, id uint64, method Method) (*Order, error)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}
