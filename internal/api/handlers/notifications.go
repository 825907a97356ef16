package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skycast/internal/core"
	"skycast/internal/notify"
)

// NotificationManager is the notification state machine contract the handler
// consumes.
type NotificationManager interface {
	Enable(ctx context.Context) (bool, error)
	Disable(ctx context.Context) error
	Status() notify.Status
}

// notificationStatusResponse reports the subsystem state to clients.
type notificationStatusResponse struct {
	Enabled bool          `json:"enabled"`
	Status  notify.Status `json:"status"`
}

// NotificationsHandler exposes the notification lifecycle over HTTP.
type NotificationsHandler struct {
	manager NotificationManager
	logger  *slog.Logger
}

// NewNotificationsHandler creates a NotificationsHandler.
func NewNotificationsHandler(manager NotificationManager, logger *slog.Logger) *NotificationsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationsHandler{manager: manager, logger: logger}
}

// RegisterRoutes mounts the notification routes.
func (h *NotificationsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Post("/enable", h.Enable)
		r.Post("/disable", h.Disable)
		r.Get("/status", h.Status)
	})
}

// Enable handles POST /v1/notifications/enable. A denied permission prompt
// is a successful response with enabled=false, not an error; only a broken
// prompt or storage failure produces an error status.
func (h *NotificationsHandler) Enable(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.manager.Enable(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: notificationStatusResponse{
		Enabled: enabled,
		Status:  h.manager.Status(),
	}})
}

// Disable handles POST /v1/notifications/disable.
func (h *NotificationsHandler) Disable(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Disable(r.Context()); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: notificationStatusResponse{
		Enabled: false,
		Status:  h.manager.Status(),
	}})
}

// Status handles GET /v1/notifications/status.
func (h *NotificationsHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.manager.Status()
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: notificationStatusResponse{
		Enabled: status != notify.StatusDisabled,
		Status:  status,
	}})
}
