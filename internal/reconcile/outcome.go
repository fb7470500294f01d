package reconcile

// Reason classifies a terminal reconciliation failure.
type Reason string

const (
	ReasonMissingReference        Reason = "missing_reference"
	ReasonMalformed               Reason = "malformed_reference"
	ReasonOrderIDMismatch         Reason = "order_id_mismatch"
	ReasonVerificationUnreachable Reason = "verification_unreachable"
	ReasonProviderDeclined        Reason = "provider_declined"
	ReasonAmountMismatch          Reason = "amount_mismatch"
	ReasonUnknownAttempt          Reason = "unknown_attempt"
	ReasonOrderNotFound           Reason = "order_not_found"
)

// Callback carries every reference-bearing value a provider callback or
// redirect may have delivered. Providers disagree about which query key
// carries the reference back, so all of them are probed.
type Callback struct {
	Reference string
	TrxRef    string
	OrderID   string
	Extra     []string
}

func (c Callback) Candidates() []string {
	return append([]string{c.Reference, c.TrxRef}, c.Extra...)
}

func (c Callback) Empty() bool {
	for _, cand := range c.Candidates() {
		if cand != "" {
			return false
		}
	}
	return true
}

// Outcome is the terminal result of one reconciliation pass. Duplicate marks
// a replayed callback or an already-settled order; both are successes, with
// no side effects repeated.
type Outcome struct {
	OK           bool
	Duplicate    bool
	OrderID      uint64
	Reference    string
	ProviderTxID string
	Reason       Reason
}

func failure(reason Reason, reference string, orderID uint64) Outcome {
	return Outcome{Reference: reference, OrderID: orderID, Reason: reason}
}
