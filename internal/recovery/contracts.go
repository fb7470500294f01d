package recovery

import "context"

// RepositoryContract define persistence responsibility for parked retries.
type RepositoryContract interface {
	Upsert(ctx context.Context, reference, reason string) error
	Pending(ctx context.Context) ([]PendingRetry, error)
	Resolve(ctx context.Context, reference string) error
}

// ServiceContract define the pending-reconciliation queue responsibility.
type ServiceContract interface {
	QueueRetry(ctx context.Context, reference, reason string)
	Pending(ctx context.Context) ([]PendingRetry, error)
	Resolve(ctx context.Context, reference string) error
}
