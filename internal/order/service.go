package order

import (
	"context"
	"errors"
	"log"
	"time"

	"restopos/internal/events"
	"restopos/kit/db"
	"restopos/kit/observability"
)

type Service struct {
	repository RepositoryContract
	bus        PublisherContract
	metrics    *observability.Metrics
}

func NewService(repo RepositoryContract, bus PublisherContract, metrics *observability.Metrics) *Service {
	return &Service{repository: repo, bus: bus, metrics: metrics}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if err := ValidateCreateRequest(req); err != nil {
		log.Printf("layer=service component=order method=Create table=%d waiter=%s err=%v", req.TableNumber, req.WaiterName, err)
		return nil, errors.Join(db.ErrInvalid, err)
	}

	o := &Order{
		TableNumber: req.TableNumber,
		WaiterName:  req.WaiterName,
		LineItems:   append([]LineItem(nil), req.LineItems...),
		Total:       ComputeTotal(req.LineItems),
		Status:      StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repository.Create(ctx, o); err != nil {
		log.Printf("layer=service component=order method=Create table=%d err=%v", req.TableNumber, err)
		return nil, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Order, error) {
	o, err := s.repository.Get(ctx, id)
	if err != nil {
		log.Printf("layer=service component=order method=Get order_id=%d err=%v", id, err)
		return nil, err
	}
	return o, nil
}

// MarkPaid drives the single Open -> Paid transition. Losing a race is
// reported as ErrAlreadyPaid together with the winning record; the stored
// method is never overwritten.
func (s *Service) MarkPaid(ctx context.Context, id uint64, method Method) (*Order, error) {
	if !ValidMethod(method) {
		return nil, errors.Join(db.ErrInvalid, ErrInvalidMethod)
	}

	o, err := s.repository.MarkPaid(ctx, id, method)
	if err != nil {
		if !errors.Is(err, ErrAlreadyPaid) {
			log.Printf("layer=service component=order method=MarkPaid order_id=%d err=%v", id, err)
		}
		return o, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.OrderPaid{OrderID: o.ID, Method: string(method), Amount: o.Total, At: time.Now().UTC()})
	}
	if s.metrics != nil {
		s.metrics.OrdersPaid.Add(1)
	}
	return o, nil
}
