package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAttempt    = errors.New("invalid payment attempt")
	ErrAlreadyReconciled = errors.New("attempt already reconciled")
	ErrOrderSettled      = errors.New("order settled by another attempt")
)

func ValidateAttempt(a *PaymentAttempt) error {
	if a == nil || a.Reference == "" || a.OrderID == 0 || !ValidMethod(a.Method) || a.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAttempt
	}
	return nil
}
