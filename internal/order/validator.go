package order

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrAlreadyPaid   = errors.New("order already paid")
	ErrInvalidMethod = errors.New("invalid payment method")
)

type CreateRequest struct {
	TableNumber int
	WaiterName  string
	LineItems   []LineItem
}

func ValidateCreateRequest(r CreateRequest) error {
	if r.TableNumber <= 0 || r.WaiterName == "" || len(r.LineItems) == 0 {
		return ErrInvalidOrder
	}
	for _, it := range r.LineItems {
		if it.Name == "" || it.Quantity <= 0 || it.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidOrder
		}
	}
	return nil
}
