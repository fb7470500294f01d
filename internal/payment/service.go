package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/internal/reference"
	"restopos/kit/db"
	"restopos/kit/observability"
)

// Service builds provider-specific payment requests from an order, hands
// them to the external gateway, and records the attempt in the ledger. The
// ledger entry is written only after the gateway accepts, so a failed or
// retried initiation never leaves an orphaned attempt behind.
type Service struct {
	orders   OrderContract
	ledger   LedgerContract
	checkout CheckoutContract
	push     PushContract
	bus      PublisherContract
	metrics  *observability.Metrics

	nonce func() int64
}

func NewService(orders OrderContract, ledgerSvc LedgerContract, checkout CheckoutContract, push PushContract, bus PublisherContract, metrics *observability.Metrics) *Service {
	return &Service{
		orders:   orders,
		ledger:   ledgerSvc,
		checkout: checkout,
		push:     push,
		bus:      bus,
		metrics:  metrics,
		nonce:    func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *Service) Initiate(ctx context.Context, orderID uint64, method ledger.Method, contact Contact) (*Initiation, error) {
	if !ledger.ValidMethod(method) {
		return nil, errors.Join(db.ErrInvalid, ErrInitiation)
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		log.Printf("layer=service component=payment method=Initiate order_id=%d err=%v", orderID, err)
		return nil, err
	}
	if o.Status != order.StatusOpen {
		log.Printf("layer=service component=payment method=Initiate order_id=%d err=%v", orderID, ErrOrderNotOpen)
		return nil, errors.Join(db.ErrConflict, ErrOrderNotOpen)
	}

	ref := reference.Encode(o.ID, s.nonce())
	init := &Initiation{Reference: ref, OrderID: o.ID, Method: method, Amount: o.Total}

	switch method {
	case ledger.MethodMobileMoneyPush:
		msisdn, err := NormalizePhone(contact.PhoneNumber)
		if err != nil {
			log.Printf("layer=service component=payment method=Initiate order_id=%d err=%v", orderID, err)
			return nil, errors.Join(db.ErrInvalid, err)
		}
		resp, err := s.push.Push(ctx, toPushRequest(o, ref, msisdn))
		if err != nil {
			log.Printf("layer=service component=payment method=Initiate order_id=%d reference=%s err=%v", orderID, ref, err)
			return nil, errors.Join(ErrInitiation, err)
		}
		init.ProviderReference = resp.ProviderReference
	case ledger.MethodHostedCheckout:
		resp, err := s.checkout.Initialize(ctx, toInitializeRequest(o, ref, contact))
		if err != nil {
			log.Printf("layer=service component=payment method=Initiate order_id=%d reference=%s err=%v", orderID, ref, err)
			return nil, errors.Join(ErrInitiation, err)
		}
		init.RedirectURL = resp.AuthorizationURL
	}

	if err := s.ledger.RecordInitiated(ctx, toAttempt(o, ref, method)); err != nil {
		// the gateway accepted but the attempt could not be journaled; the
		// reference is unusable for reconciliation, so surface the failure
		log.Printf("layer=service component=payment method=Initiate order_id=%d reference=%s err=%v", orderID, ref, err)
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, ToPaymentInitiatedEvent(init))
	}
	if s.metrics != nil {
		s.metrics.PaymentsInitiated.Add(1)
	}
	return init, nil
}
