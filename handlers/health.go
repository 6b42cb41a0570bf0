package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"timetracker/apperr"
	"timetracker/response"
)

// HealthHandler reports whether the store connections respond.
type HealthHandler struct {
	ping   func(context.Context) error
	logger *zap.Logger
}

func NewHealthHandler(ping func(context.Context) error, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		response.Error(w, apperr.Wrap(err, apperr.ErrStoreUnavailable, ""))
		return
	}
	response.OK(w, map[string]string{"status": "ok"})
}
