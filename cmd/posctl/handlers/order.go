package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restopos/cmd/posctl/validator"
	"restopos/internal/order"
	"restopos/internal/readmodels"
	"restopos/kit/db"
)

type OrderServiceContract interface {
	Create(ctx context.Context, req order.CreateRequest) (*order.Order, error)
	Get(ctx context.Context, id uint64) (*order.Order, error)
	MarkPaid(ctx context.Context, id uint64, method order.Method) (*order.Order, error)
}

type OrderReadModelContract interface {
	GetOrder(orderID uint64) (readmodels.OrderView, bool)
}

type Order struct {
	json   *validator.JSON
	orders OrderServiceContract
	rm     OrderReadModelContract
}

func NewOrder(jsonV *validator.JSON, orders OrderServiceContract, rm OrderReadModelContract) *Order {
	return &Order{json: jsonV, orders: orders, rm: rm}
}

type createOrderReq struct {
	TableNumber int              `json:"table_number"`
	WaiterName  string           `json:"waiter_name"`
	LineItems   []order.LineItem `json:"line_items"`
}

func (h *Order) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=order method=Create err=%v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		TableNumber: req.TableNumber,
		WaiterName:  req.WaiterName,
		LineItems:   req.LineItems,
	})
	if err != nil {
		log.Printf("layer=handler component=order method=Create table=%d err=%v", req.TableNumber, err)
		if db.IsInvalid(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.json.Respond(w, http.StatusCreated, map[string]any{
		"order_id": o.ID,
		"total":    o.Total,
		"status":   o.Status,
	})
}

func (h *Order) Get(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		log.Printf("layer=handler component=order method=Get order_id=%d err=%v", id, err)
		if db.IsNotFound(err) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	body := map[string]any{
		"order_id":     o.ID,
		"table_number": o.TableNumber,
		"waiter_name":  o.WaiterName,
		"line_items":   o.LineItems,
		"total":        o.Total,
		"status":       o.Status,
	}
	if o.PaymentMethod != "" {
		body["payment_method"] = o.PaymentMethod
	}
	if h.rm != nil {
		if v, ok := h.rm.GetOrder(o.ID); ok {
			body["payment_references"] = v.References
		}
	}
	h.json.Respond(w, http.StatusOK, body)
}

type confirmOrderReq struct {
	Method string `json:"method"`
}

// Confirm settles an order directly at the till, outside any provider flow.
func (h *Order) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	req := confirmOrderReq{Method: string(order.MethodCash)}
	if r.ContentLength > 0 {
		if err := h.json.Decode(w, r, &req); err != nil {
			log.Printf("layer=handler component=order method=Confirm order_id=%d err=%v", id, err)
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}

	o, err := h.orders.MarkPaid(r.Context(), id, order.Method(req.Method))
	if err != nil {
		log.Printf("layer=handler component=order method=Confirm order_id=%d method=%s err=%v", id, req.Method, err)
		switch {
		case db.IsInvalid(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case db.IsNotFound(err):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, order.ErrAlreadyPaid):
			h.json.Respond(w, http.StatusConflict, map[string]any{
				"order_id": o.ID,
				"status":   o.Status,
				"method":   o.PaymentMethod,
			})
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	h.json.Respond(w, http.StatusOK, map[string]any{
		"order_id": o.ID,
		"status":   o.Status,
		"method":   o.PaymentMethod,
	})
}

func orderID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}
