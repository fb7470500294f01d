package ledger

import (
	"context"
	"errors"
	"log"

	"restopos/kit/db"
)

type Service struct {
	repository RepositoryContract
}

func NewService(repo RepositoryContract) *Service {
	return &Service{repository: repo}
}

func (s *Service) RecordInitiated(ctx context.Context, a *PaymentAttempt) error {
	if err := ValidateAttempt(a); err != nil {
		log.Printf("layer=service component=ledger method=RecordInitiated reference=%s err=%v", attemptRef(a), err)
		return errors.Join(db.ErrInvalid, err)
	}
	if err := s.repository.RecordInitiated(ctx, a); err != nil {
		log.Printf("layer=service component=ledger method=RecordInitiated reference=%s err=%v", a.Reference, err)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, reference string) (*PaymentAttempt, error) {
	a, err := s.repository.Get(ctx, reference)
	if err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=service component=ledger method=Get reference=%s err=%v", reference, err)
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) ByOrder(ctx context.Context, orderID uint64) ([]PaymentAttempt, error) {
	return s.repository.ByOrder(ctx, orderID)
}

func (s *Service) TryReconcile(ctx context.Context, reference, providerTxID string) (*PaymentAttempt, error) {
	return s.repository.TryReconcile(ctx, reference, providerTxID)
}

func (s *Service) MarkFailed(ctx context.Context, reference, reason string) error {
	if err := s.repository.MarkFailed(ctx, reference, reason); err != nil {
		log.Printf("layer=service component=ledger method=MarkFailed reference=%s err=%v", reference, err)
		return err
	}
	return nil
}

func attemptRef(a *PaymentAttempt) string {
	if a == nil {
		return ""
	}
	return a.Reference
}
