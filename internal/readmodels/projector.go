package readmodels

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"restopos/internal/events"
	"restopos/kit/broker"
)

// PaymentView is the per-reference projection the operator screens read.
type PaymentView struct {
	Reference    string
	OrderID      uint64
	Method       string
	Amount       decimal.Decimal
	Status       string
	Reason       string
	ProviderTxID string
	UpdatedAt    time.Time
}

// OrderView tracks the settlement state of one order across its attempts.
type OrderView struct {
	OrderID    uint64
	Paid       bool
	Method     string
	Amount     decimal.Decimal
	References []string
	UpdatedAt  time.Time
}

const (
	viewStatusInitiated  = "initiated"
	viewStatusReconciled = "reconciled"
	viewStatusFailed     = "failed"
)

type Projector struct {
	mu       sync.RWMutex
	payments map[string]PaymentView
	orders   map[uint64]OrderView
}

func NewProjector() *Projector {
	return &Projector{
		payments: make(map[string]PaymentView),
		orders:   make(map[uint64]OrderView),
	}
}

func (p *Projector) Apply(ctx context.Context, evt broker.Event) error {
	switch e := evt.(type) {
	case events.PaymentInitiated:
		p.applyPaymentInitiated(e)
	case events.PaymentReconciled:
		p.applyPaymentReconciled(e)
	case events.ReconciliationFailed:
		p.applyReconciliationFailed(e)
	case events.OrderPaid:
		p.applyOrderPaid(e)
	default:
		return nil
	}
	return nil
}

func (p *Projector) GetPayment(reference string) (PaymentView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.payments[reference]
	return v, ok
}

func (p *Projector) GetOrder(orderID uint64) (OrderView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.orders[orderID]
	return v, ok
}

func (p *Projector) applyPaymentInitiated(e events.PaymentInitiated) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.payments[e.Reference]
	cur.Reference = e.Reference
	cur.OrderID = e.OrderID
	cur.Method = e.Method
	cur.Amount = e.Amount
	if cur.Status == "" {
		cur.Status = viewStatusInitiated
	}
	cur.UpdatedAt = e.At
	p.payments[e.Reference] = cur

	ord := p.orders[e.OrderID]
	ord.OrderID = e.OrderID
	ord.References = appendReference(ord.References, e.Reference)
	ord.UpdatedAt = e.At
	p.orders[e.OrderID] = ord
}

func (p *Projector) applyPaymentReconciled(e events.PaymentReconciled) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.payments[e.Reference]
	cur.Reference = e.Reference
	cur.OrderID = e.OrderID
	if e.Method != "" {
		cur.Method = e.Method
	}
	cur.Status = viewStatusReconciled
	cur.Reason = ""
	if e.ProviderTxID != "" {
		cur.ProviderTxID = e.ProviderTxID
	}
	cur.UpdatedAt = e.At
	p.payments[e.Reference] = cur
}

func (p *Projector) applyReconciliationFailed(e events.ReconciliationFailed) {
	if e.Reference == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.payments[e.Reference]
	if cur.Status == viewStatusReconciled {
		// a settled attempt never regresses in the view
		return
	}
	cur.Reference = e.Reference
	cur.OrderID = e.OrderID
	cur.Status = viewStatusFailed
	cur.Reason = e.Reason
	cur.UpdatedAt = e.At
	p.payments[e.Reference] = cur
}

func (p *Projector) applyOrderPaid(e events.OrderPaid) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.orders[e.OrderID]
	cur.OrderID = e.OrderID
	cur.Paid = true
	cur.Method = e.Method
	cur.Amount = e.Amount
	cur.UpdatedAt = e.At
	p.orders[e.OrderID] = cur
}

func appendReference(refs []string, ref string) []string {
	for _, r := range refs {
		if r == ref {
			return refs
		}
	}
	return append(refs, ref)
}
