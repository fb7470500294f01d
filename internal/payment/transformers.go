package payment

import (
	"time"

	"restopos/internal/events"
	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/kit/gateway"
)

func toInitializeRequest(o *order.Order, ref string, contact Contact) gateway.InitializeRequest {
	channel := contact.Channel
	if channel == "" {
		channel = "card"
	}
	return gateway.InitializeRequest{
		Reference:   ref,
		OrderID:     o.ID,
		Email:       contact.Email,
		Amount:      o.Total,
		Channel:     channel,
		PhoneNumber: contact.PhoneNumber,
	}
}

func toPushRequest(o *order.Order, ref, msisdn string) gateway.PushRequest {
	return gateway.PushRequest{
		PhoneNumber: msisdn,
		Amount:      o.Total,
		OrderID:     o.ID,
		Reference:   ref,
	}
}

func toAttempt(o *order.Order, ref string, method ledger.Method) *ledger.PaymentAttempt {
	return &ledger.PaymentAttempt{
		Reference: ref,
		OrderID:   o.ID,
		Method:    method,
		Amount:    o.Total,
	}
}

func ToPaymentInitiatedEvent(init *Initiation) events.PaymentInitiated {
	return events.PaymentInitiated{
		OrderID:   init.OrderID,
		Reference: init.Reference,
		Method:    string(init.Method),
		Amount:    init.Amount,
		At:        time.Now().UTC(),
	}
}
