package notification

import (
	"context"
	"fmt"

	"restopos/internal/events"
	"restopos/kit/broker"
	"restopos/kit/observability"
)

// Service surfaces payment outcomes to the floor staff terminal. Delivery is
// a structured log line for now; the till UI tails it.
type Service struct {
	logger *observability.Logger
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) Notify(ctx context.Context, orderID uint64, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info("notify", "order_id", orderID, "msg", msg)
}

// Dispatch routes bus events to operator notifications. Duplicate
// reconciliations stay quiet so replayed callbacks do not spam the till.
func (s *Service) Dispatch(ctx context.Context, evt broker.Event) error {
	switch e := evt.(type) {
	case events.OrderPaid:
		s.Notify(ctx, e.OrderID, fmt.Sprintf("order paid via %s, amount %s", e.Method, e.Amount))
	case events.PaymentReconciled:
		if !e.Duplicate {
			s.Notify(ctx, e.OrderID, fmt.Sprintf("payment %s confirmed", e.Reference))
		}
	case events.ReconciliationFailed:
		s.Notify(ctx, e.OrderID, fmt.Sprintf("payment %s needs attention: %s", e.Reference, e.Reason))
	}
	return nil
}
