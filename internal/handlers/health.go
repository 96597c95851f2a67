package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler reports service liveness and, when wired, database readiness.
type HealthHandler struct {
	Ready func(ctx context.Context) error
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if h.Ready != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.Ready(checkCtx); err != nil {
			respondError(ctx, w, http.StatusServiceUnavailable, "service degraded", err.Error())
			return
		}
	}

	respond(ctx, w, http.StatusOK, map[string]string{"status": "ok"}, "service healthy")
}
