package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	services "kiatsu-notification/service"

	"go.uber.org/zap"
)

// NotifyHandler exposes the notification pipeline over HTTP: a manual
// trigger and a compose-only preview.
type NotifyHandler struct {
	notifier *services.PressureNotifierService
	logger   *zap.Logger
}

func NewNotifyHandler(notifier *services.PressureNotifierService, logger *zap.Logger) *NotifyHandler {
	return &NotifyHandler{notifier: notifier, logger: logger}
}

// Notify handles POST /v1/notify by running one full notification pass.
func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), services.RUN_TIMEOUT)
	defer cancel()

	if err := h.notifier.Run(ctx); err != nil {
		h.logger.Error("Manual notification run failed", zap.Error(err))
		http.Error(w, "notification dispatch failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{"status": "sent"})
}

// Preview handles GET /v1/pressure/preview: it composes both messages
// without dispatching or persisting anything.
func (h *NotifyHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), services.RUN_TIMEOUT)
	defer cancel()

	fiveDay, hourly := h.notifier.Preview(ctx)
	h.writeJSON(w, map[string]string{
		"five_day": fiveDay,
		"hourly":   hourly,
	})
}

// Ping handles GET /ping.
func (h *NotifyHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "pong"})
}

func (h *NotifyHandler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}
