// Package http serves the operational endpoints and, in webhook mode, the
// Telegram update endpoint.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	nethttp "net/http"

	"catan-results-bot/internal/dialog"
	"catan-results-bot/internal/logging"
	"catan-results-bot/internal/telegram"
)

// Dispatcher consumes dialogue events decoded from webhook updates.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dialog.Event)
}

// ReadyReport is what the readiness endpoint exposes about the transport.
type ReadyReport struct {
	Ready     bool   `json:"ready"`
	LastError string `json:"last_error,omitempty"`
}

// Handler wires HTTP routes to the bot.
type Handler struct {
	dispatcher Dispatcher
	ready      func() ReadyReport
	logger     *slog.Logger
}

// NewHandler constructs a Handler. ready may be nil, in which case the
// service reports ready as soon as it serves.
func NewHandler(dispatcher Dispatcher, ready func() ReadyReport, logger *slog.Logger) *Handler {
	if ready == nil {
		ready = func() ReadyReport { return ReadyReport{Ready: true} }
	}
	return &Handler{
		dispatcher: dispatcher,
		ready:      ready,
		logger:     logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the update transport is healthy.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	report := h.ready()
	status := nethttp.StatusOK
	if !report.Ready {
		status = nethttp.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

// Webhook receives one Bot API update per request. Telegram retries on
// non-2xx, so malformed bodies are the only rejection.
func (h *Handler) Webhook(w nethttp.ResponseWriter, r *nethttp.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, nethttp.StatusBadRequest, "malformed update")
		return
	}

	if ev, ok := telegram.EventFromUpdate(update); ok {
		h.dispatcher.Dispatch(r.Context(), ev)
	} else {
		logging.Info(logging.FromContext(r.Context(), h.logger), "ignoring update",
			slog.Int64("update_id", update.UpdateID))
	}

	h.writeJSON(w, nethttp.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(h.logger, "failed to encode response", err)
	}
}

func (h *Handler) writeError(w nethttp.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
