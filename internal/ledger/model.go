package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateInitiated         State = "initiated"
	StateProviderConfirmed State = "provider_confirmed"
	StateReconciled        State = "reconciled"
	StateFailed            State = "failed"
)

type Method string

const (
	MethodMobileMoneyPush Method = "mobile_money_push"
	MethodHostedCheckout  Method = "hosted_checkout"
)

func ValidMethod(m Method) bool {
	return m == MethodMobileMoneyPush || m == MethodHostedCheckout
}

// PaymentAttempt is one append-only ledger entry. A reference identifies
// exactly one attempt; an order may accumulate several attempts, but at most
// one of them ever reaches StateReconciled.
type PaymentAttempt struct {
	Reference             string
	OrderID               uint64
	Method                Method
	Amount                decimal.Decimal
	State                 State
	ProviderTransactionID string
	Reason                string
	CreatedAt             time.Time
	ReconciledAt          time.Time
}
