package handlers

import (
	"context"
	"log"
	"net/http"

	"restopos/cmd/posctl/validator"
	"restopos/internal/reconcile"
)

type ReconcilerContract interface {
	Reconcile(ctx context.Context, cb reconcile.Callback) reconcile.Outcome
}

// Callback is the single entry point for both the browser redirect after a
// hosted checkout (GET) and the provider's server-to-server webhook (POST).
// Either way the payload is only a hint; the reconciler re-verifies with the
// provider before anything is committed.
type Callback struct {
	json       *validator.JSON
	reconciler ReconcilerContract
}

func NewCallback(jsonV *validator.JSON, reconciler ReconcilerContract) *Callback {
	return &Callback{json: jsonV, reconciler: reconciler}
}

func (h *Callback) Redirect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cb := reconcile.Callback{
		Reference: q.Get("reference"),
		TrxRef:    q.Get("trxref"),
		OrderID:   q.Get("orderId"),
	}
	h.respond(w, r, h.reconciler.Reconcile(r.Context(), cb))
}

type webhookReq struct {
	Reference string `json:"reference"`
	TrxRef    string `json:"trxref"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
}

func (h *Callback) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=callback method=Webhook err=%v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	// the status field is deliberately ignored; verification decides
	cb := reconcile.Callback{
		Reference: req.Reference,
		TrxRef:    req.TrxRef,
		OrderID:   req.OrderID,
	}
	h.respond(w, r, h.reconciler.Reconcile(r.Context(), cb))
}

func (h *Callback) respond(w http.ResponseWriter, r *http.Request, out reconcile.Outcome) {
	if out.OK {
		status := "reconciled"
		if out.Duplicate {
			status = "duplicate"
		}
		h.json.Respond(w, http.StatusOK, map[string]any{
			"status":         status,
			"order_id":       out.OrderID,
			"reference":      out.Reference,
			"provider_tx_id": out.ProviderTxID,
		})
		return
	}

	log.Printf("layer=handler component=callback method=respond reference=%s reason=%s", out.Reference, out.Reason)
	h.json.Respond(w, statusFor(out.Reason), map[string]any{
		"status":    "failed",
		"reason":    out.Reason,
		"reference": out.Reference,
	})
}

func statusFor(reason reconcile.Reason) int {
	switch reason {
	case reconcile.ReasonMissingReference, reconcile.ReasonMalformed, reconcile.ReasonOrderIDMismatch:
		return http.StatusBadRequest
	case reconcile.ReasonUnknownAttempt, reconcile.ReasonOrderNotFound:
		return http.StatusNotFound
	case reconcile.ReasonVerificationUnreachable:
		return http.StatusBadGateway
	case reconcile.ReasonProviderDeclined, reconcile.ReasonAmountMismatch:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
