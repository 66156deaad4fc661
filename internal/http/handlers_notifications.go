package httpx

import (
	"log/slog"
	"net/http"

	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
)

// NotificationHandlers provides HTTP handlers for the caller's notifications.
type NotificationHandlers struct {
	Svc    NotificationsService
	Logger *slog.Logger
}

// List handles GET /notifications?page&limit&read.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	read, err := parseBoolQuery(r, "read")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	page, limit := parsePage(r)

	out, err := h.Svc.GetNotifications(r.Context(), service.ListNotificationsParams{
		UserID: p.UserID,
		Role:   p.Role,
		Read:   read,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, out)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	n, err := h.Svc.UnreadCount(r.Context(), p.UserID, p.Role)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]int{"unread_count": n})
}

// MarkRead handles PUT /notifications/{id}/read.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if err = h.Svc.MarkRead(r.Context(), id, p.UserID); err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]any{"id": id, "read": true})
}

// MarkAllRead handles PUT /notifications/read-all.
func (h *NotificationHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	n, err := h.Svc.MarkAllRead(r.Context(), p.UserID)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]int64{"updated": n})
}

// Delete handles DELETE /notifications/{id}.
func (h *NotificationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if err = h.Svc.Delete(r.Context(), id, p.UserID); err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]string{"id": id})
}
