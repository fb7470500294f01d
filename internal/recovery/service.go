package recovery

import (
	"context"

	"restopos/kit/observability"
)

// Service parks references whose verification could not be reached. Nothing
// retries them automatically; `posctl reconcile` replays a parked reference
// when the operator decides the provider is back.
type Service struct {
	repo   RepositoryContract
	logger *observability.Logger
}

func NewService(repo RepositoryContract, logger *observability.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) QueueRetry(ctx context.Context, reference, reason string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Upsert(ctx, reference, reason); err != nil {
		if s.logger != nil {
			s.logger.Error("queue retry", "layer", "service", "component", "recovery", "method", "QueueRetry", "reference", reference, "error", err.Error())
		}
		return
	}
	if s.logger != nil {
		s.logger.Info("queued for retry", "reference", reference, "reason", reason)
	}
}

func (s *Service) Pending(ctx context.Context) ([]PendingRetry, error) {
	return s.repo.Pending(ctx)
}

func (s *Service) Resolve(ctx context.Context, reference string) error {
	return s.repo.Resolve(ctx, reference)
}
