package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen Status = "open"
	StatusPaid Status = "paid"
)

type Method string

const (
	MethodCash        Method = "cash"
	MethodMobileMoney Method = "mobile_money"
	MethodCard        Method = "card"
)

func ValidMethod(m Method) bool {
	switch m {
	case MethodCash, MethodMobileMoney, MethodCard:
		return true
	}
	return false
}

type LineItem struct {
	ItemID    uint64          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
}

// Order is the unit of settlement. Line items and total are frozen at
// creation; the only later mutation is the single Open -> Paid transition.
type Order struct {
	ID            uint64
	TableNumber   int
	WaiterName    string
	LineItems     []LineItem
	Total         decimal.Decimal
	Status        Status
	PaymentMethod Method
	CreatedAt     time.Time
}

// ComputeTotal is the creation-time sum of unitPrice x quantity. The result
// is stored, never recomputed, so later menu price edits cannot shift the
// amount a payment attempt was initiated for.
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}
