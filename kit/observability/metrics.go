package observability

import "sync/atomic"

type Metrics struct {
	PaymentsInitiated      atomic.Int64
	PaymentsReconciled     atomic.Int64
	DuplicateCallbacks     atomic.Int64
	VerificationFailures   atomic.Int64
	ReconciliationFailures atomic.Int64
	OrdersPaid             atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}
