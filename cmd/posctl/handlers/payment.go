package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"restopos/cmd/posctl/validator"
	"restopos/internal/ledger"
	"restopos/internal/payment"
	"restopos/internal/readmodels"
	"restopos/kit/db"
)

type PaymentServiceContract interface {
	Initiate(ctx context.Context, orderID uint64, method ledger.Method, contact payment.Contact) (*payment.Initiation, error)
}

type PaymentLedgerContract interface {
	Get(ctx context.Context, reference string) (*ledger.PaymentAttempt, error)
}

type PaymentReadModelContract interface {
	GetPayment(reference string) (readmodels.PaymentView, bool)
}

type Payment struct {
	json    *validator.JSON
	payment PaymentServiceContract
	ledger  PaymentLedgerContract
	rm      PaymentReadModelContract
}

func NewPayment(jsonV *validator.JSON, paymentSvc PaymentServiceContract, ledgerSvc PaymentLedgerContract, rm PaymentReadModelContract) *Payment {
	return &Payment{json: jsonV, payment: paymentSvc, ledger: ledgerSvc, rm: rm}
}

type initiatePaymentReq struct {
	Method      string `json:"method"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Channel     string `json:"channel"`
}

func (h *Payment) Initiate(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req initiatePaymentReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=payment method=Initiate order_id=%d err=%v", id, err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	init, err := h.payment.Initiate(r.Context(), id, ledger.Method(req.Method), payment.Contact{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Channel:     req.Channel,
	})
	if err != nil {
		log.Printf("layer=handler component=payment method=Initiate order_id=%d method=%s err=%v", id, req.Method, err)
		switch {
		case db.IsInvalid(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case db.IsNotFound(err):
			http.Error(w, "not found", http.StatusNotFound)
		case db.IsConflict(err):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "payment initiation failed", http.StatusBadGateway)
		}
		return
	}

	body := map[string]any{
		"reference": init.Reference,
		"order_id":  init.OrderID,
		"method":    init.Method,
		"amount":    init.Amount,
	}
	if init.RedirectURL != "" {
		body["redirect_url"] = init.RedirectURL
	}
	if init.ProviderReference != "" {
		body["provider_reference"] = init.ProviderReference
	}
	h.json.Respond(w, http.StatusAccepted, body)
}

func (h *Payment) Get(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		http.Error(w, "missing reference", http.StatusBadRequest)
		return
	}

	if h.rm != nil {
		if v, ok := h.rm.GetPayment(reference); ok {
			h.json.Respond(w, http.StatusOK, map[string]any{
				"reference":      v.Reference,
				"order_id":       v.OrderID,
				"method":         v.Method,
				"amount":         v.Amount,
				"status":         v.Status,
				"reason":         v.Reason,
				"provider_tx_id": v.ProviderTxID,
			})
			return
		}
	}

	a, err := h.ledger.Get(r.Context(), reference)
	if err != nil {
		log.Printf("layer=handler component=payment method=Get reference=%s err=%v", reference, err)
		if db.IsNotFound(err) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.json.Respond(w, http.StatusOK, map[string]any{
		"reference":      a.Reference,
		"order_id":       a.OrderID,
		"method":         a.Method,
		"amount":         a.Amount,
		"status":         a.State,
		"reason":         a.Reason,
		"provider_tx_id": a.ProviderTransactionID,
	})
}
