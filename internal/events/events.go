package events

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentInitiated struct {
	OrderID   uint64          `json:"order_id"`
	Reference string          `json:"reference"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	At        time.Time       `json:"at"`
}

func (PaymentInitiated) Name() string { return "payment.initiated" }

func (e PaymentInitiated) PartitionKey() string { return e.Reference }

type PaymentReconciled struct {
	OrderID      uint64    `json:"order_id"`
	Reference    string    `json:"reference"`
	Method       string    `json:"method"`
	ProviderTxID string    `json:"provider_tx_id"`
	Duplicate    bool      `json:"duplicate"`
	At           time.Time `json:"at"`
}

func (PaymentReconciled) Name() string { return "payment.reconciled" }

func (e PaymentReconciled) PartitionKey() string { return e.Reference }

type ReconciliationFailed struct {
	OrderID   uint64    `json:"order_id"`
	Reference string    `json:"reference"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

func (ReconciliationFailed) Name() string { return "payment.reconcile_failed" }

func (e ReconciliationFailed) PartitionKey() string { return e.Reference }

type OrderPaid struct {
	OrderID uint64          `json:"order_id"`
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
	At      time.Time       `json:"at"`
}

func (OrderPaid) Name() string { return "order.paid" }

func (e OrderPaid) PartitionKey() string { return fmt.Sprintf("%d", e.OrderID) }
