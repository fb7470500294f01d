package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"restopos/internal/events"
	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/internal/reference"
	"restopos/kit/db"
	"restopos/kit/observability"
)

const defaultVerifyTimeout = 10 * time.Second

// Service drives one callback through the reconciliation state machine:
// extract the reference, cross-check the order id, verify with the provider,
// pass the ledger's idempotency gate, then commit ledger and order in a
// retriable sequence. Replays and already-paid races resolve as no-op
// successes; everything else is a terminal failure for the operator.
type Service struct {
	orders   OrderContract
	ledger   LedgerContract
	verifier VerifierContract
	recovery RecoveryContract
	bus      PublisherContract
	metrics  *observability.Metrics

	verifyTimeout time.Duration
}

func NewService(orders OrderContract, ledgerSvc LedgerContract, verifier VerifierContract, recoverySvc RecoveryContract, bus PublisherContract, metrics *observability.Metrics, verifyTimeout time.Duration) *Service {
	if verifyTimeout <= 0 {
		verifyTimeout = defaultVerifyTimeout
	}
	return &Service{
		orders:        orders,
		ledger:        ledgerSvc,
		verifier:      verifier,
		recovery:      recoverySvc,
		bus:           bus,
		metrics:       metrics,
		verifyTimeout: verifyTimeout,
	}
}

func (s *Service) Reconcile(ctx context.Context, cb Callback) Outcome {
	// 1. extract
	if cb.Empty() {
		return s.fail(ctx, failure(ReasonMissingReference, "", 0))
	}
	raw, ref, err := reference.DecodeFirst(cb.Candidates()...)
	if err != nil {
		log.Printf("layer=service component=reconcile method=Reconcile err=%v", err)
		return s.fail(ctx, failure(ReasonMalformed, "", 0))
	}

	// 2. resolve order id: an explicit parameter must agree with the decoded id
	if cb.OrderID != "" {
		explicit, parseErr := strconv.ParseUint(cb.OrderID, 10, 64)
		if parseErr != nil || explicit != ref.OrderID {
			log.Printf("layer=service component=reconcile method=Reconcile reference=%s order_id_param=%s decoded=%d err=order id mismatch", raw, cb.OrderID, ref.OrderID)
			return s.fail(ctx, failure(ReasonOrderIDMismatch, raw, ref.OrderID))
		}
	}

	// 3. verify with the provider; a transport failure mutates nothing and
	// is parked for an explicit operator retry, never retried automatically
	verifyCtx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	ver, err := s.verifier.Verify(verifyCtx, raw)
	cancel()
	if err != nil {
		log.Printf("layer=service component=reconcile method=Reconcile reference=%s err=%v", raw, err)
		if s.metrics != nil {
			s.metrics.VerificationFailures.Add(1)
		}
		if s.recovery != nil {
			s.recovery.QueueRetry(ctx, raw, err.Error())
		}
		return s.fail(ctx, failure(ReasonVerificationUnreachable, raw, ref.OrderID))
	}

	// 4. idempotency gate
	attempt, err := s.ledger.Get(ctx, raw)
	if err != nil {
		if db.IsNotFound(err) {
			log.Printf("layer=service component=reconcile method=Reconcile reference=%s err=unknown attempt", raw)
			return s.fail(ctx, failure(ReasonUnknownAttempt, raw, ref.OrderID))
		}
		log.Printf("layer=service component=reconcile method=Reconcile reference=%s err=%v", raw, err)
		return s.fail(ctx, failure(ReasonVerificationUnreachable, raw, ref.OrderID))
	}
	if attempt.State == ledger.StateReconciled {
		if s.metrics != nil {
			s.metrics.DuplicateCallbacks.Add(1)
		}
		return s.succeed(ctx, Outcome{
			OK:           true,
			Duplicate:    true,
			OrderID:      attempt.OrderID,
			Reference:    raw,
			ProviderTxID: attempt.ProviderTransactionID,
		}, attempt)
	}

	if !ver.Succeeded() {
		reason := fmt.Sprintf("provider verdict %q", ver.Status)
		_ = s.ledger.MarkFailed(ctx, raw, reason)
		log.Printf("layer=service component=reconcile method=Reconcile reference=%s err=%s", raw, reason)
		return s.fail(ctx, failure(ReasonProviderDeclined, raw, ref.OrderID))
	}
	if ver.Amount.IsPositive() && !ver.Amount.Equal(attempt.Amount) {
		reason := fmt.Sprintf("verified amount %s != attempt amount %s", ver.Amount, attempt.Amount)
		_ = s.ledger.MarkFailed(ctx, raw, reason)
		log.Printf("layer=service component=reconcile method=Reconcile reference=%s err=%s", raw, reason)
		return s.fail(ctx, failure(ReasonAmountMismatch, raw, ref.OrderID))
	}

	// 5. commit: ledger first, then the order transition, which is
	// idempotent and retriable if this process dies in between
	committed, err := s.ledger.TryReconcile(ctx, raw, ver.TransactionID)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrAlreadyReconciled):
		if s.metrics != nil {
			s.metrics.DuplicateCallbacks.Add(1)
		}
		return s.succeed(ctx, Outcome{
			OK:           true,
			Duplicate:    true,
			OrderID:      committed.OrderID,
			Reference:    raw,
			ProviderTxID: committed.ProviderTransactionID,
		}, committed)
	case errors.Is(err, ledger.ErrOrderSettled):
		// a different attempt already settled the order; the business
		// outcome is unambiguous, so absorb as a no-op success
		_ = s.ledger.MarkFailed(ctx, raw, "superseded by settled attempt")
		return s.succeed(ctx, Outcome{
			OK:        true,
			Duplicate: true,
			OrderID:   ref.OrderID,
			Reference: raw,
		}, attempt)
	case db.IsNotFound(err):
		return s.fail(ctx, failure(ReasonUnknownAttempt, raw, ref.OrderID))
	default:
		log.Printf("layer=service component=reconcile method=Reconcile reference=%s err=%v", raw, err)
		return s.fail(ctx, failure(ReasonVerificationUnreachable, raw, ref.OrderID))
	}

	if _, err := s.orders.MarkPaid(ctx, attempt.OrderID, methodFor(attempt.Method)); err != nil {
		if errors.Is(err, order.ErrAlreadyPaid) {
			// racing manual confirmation; method and amount stay as recorded
			return s.succeed(ctx, Outcome{
				OK:           true,
				OrderID:      attempt.OrderID,
				Reference:    raw,
				ProviderTxID: committed.ProviderTransactionID,
			}, committed)
		}
		// ledger committed but the order is gone; loud failure for the operator
		log.Printf("layer=service component=reconcile method=Reconcile reference=%s order_id=%d err=%v", raw, attempt.OrderID, err)
		return s.fail(ctx, failure(ReasonOrderNotFound, raw, attempt.OrderID))
	}

	if s.metrics != nil {
		s.metrics.PaymentsReconciled.Add(1)
	}
	return s.succeed(ctx, Outcome{
		OK:           true,
		OrderID:      attempt.OrderID,
		Reference:    raw,
		ProviderTxID: committed.ProviderTransactionID,
	}, committed)
}

func (s *Service) succeed(ctx context.Context, out Outcome, attempt *ledger.PaymentAttempt) Outcome {
	if s.bus != nil {
		evt := events.PaymentReconciled{
			OrderID:      out.OrderID,
			Reference:    out.Reference,
			ProviderTxID: out.ProviderTxID,
			Duplicate:    out.Duplicate,
			At:           time.Now().UTC(),
		}
		if attempt != nil {
			evt.Method = string(attempt.Method)
		}
		s.bus.Publish(ctx, evt)
	}
	return out
}

func (s *Service) fail(ctx context.Context, out Outcome) Outcome {
	if s.metrics != nil {
		s.metrics.ReconciliationFailures.Add(1)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.ReconciliationFailed{
			OrderID:   out.OrderID,
			Reference: out.Reference,
			Reason:    string(out.Reason),
			At:        time.Now().UTC(),
		})
	}
	return out
}

func methodFor(m ledger.Method) order.Method {
	if m == ledger.MethodMobileMoneyPush {
		return order.MethodMobileMoney
	}
	return order.MethodCard
}
