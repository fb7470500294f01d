package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"restopos/internal/health"
)

type HealthContract interface {
	Check(ctx context.Context) health.Result
}

type Health struct {
	health HealthContract
}

func NewHealth(healthSvc HealthContract) *Health {
	return &Health{health: healthSvc}
}

func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	res := h.health.Check(r.Context())
	status := http.StatusOK
	state := "up"
	if !res.OK {
		status = http.StatusServiceUnavailable
		state = "down"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": state, "checks": res.Checks})
}
