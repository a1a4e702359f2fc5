package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/shared"
	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/google/uuid"
)

// HandleNotifications answers GET /notifications with the session user's
// 10 most recent notifications, newest first.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		shared.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	notifications, err := h.NotificationRepo.ListRecent(ctx, sess.UserID.String())
	if err != nil {
		shared.SendError(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	shared.SendJSON(w, notifications, http.StatusOK)
}

/*
handles routes under /notifications/:
- POST /notifications/{id}/read - mark one notification read
- POST /notifications/read-all  - mark all of the user's unread read
*/
func (h *Handler) HandleNotificationActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		shared.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rest := r.URL.Path[len("/notifications/"):]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if rest == "read-all" {
		if err := h.NotificationRepo.MarkAllRead(ctx, sess.UserID.String()); err != nil {
			shared.SendError(w, "Failed to mark notifications read", http.StatusInternalServerError)
			return
		}
		h.WSHub.NotifyChanged(sess.UserID, "update")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	idStr, okSuffix := strings.CutSuffix(rest, "/read")
	if !okSuffix {
		shared.SendError(w, "Unknown notification action", http.StatusNotFound)
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		shared.SendError(w, "notification id must be a valid uuid", http.StatusBadRequest)
		return
	}

	if err := h.NotificationRepo.MarkRead(ctx, id.String(), sess.UserID.String()); err != nil {
		shared.SendError(w, "Notification not found", http.StatusNotFound)
		return
	}
	h.WSHub.NotifyChanged(sess.UserID, "update")
	w.WriteHeader(http.StatusNoContent)
}
