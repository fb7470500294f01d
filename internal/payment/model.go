package payment

import (
	"github.com/shopspring/decimal"

	"restopos/internal/ledger"
)

// Contact carries whatever the operator captured for the customer at
// initiation time. Email is required for hosted checkout, the phone number
// for mobile-money push.
type Contact struct {
	Email       string
	PhoneNumber string
	Channel     string
}

// Initiation is the outcome of a successful gateway call: either a redirect
// URL the browser must follow (hosted checkout) or a dispatch receipt for a
// push prompt. The order itself is untouched.
type Initiation struct {
	Reference         string
	OrderID           uint64
	Method            ledger.Method
	Amount            decimal.Decimal
	RedirectURL       string
	ProviderReference string
}
