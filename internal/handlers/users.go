package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/shared"
	"github.com/AndresGalvis92/warmtask-pro/shared/models"
)

// HandleUsers answers GET /users with every profile ordered by name. Used by
// the task assignment picker, so it is admin-only.
func (h *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		shared.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !sess.IsAdmin() {
		shared.SendError(w, "Forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	profiles, err := h.ProfileRepo.List(ctx)
	if err != nil {
		shared.SendError(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	shared.SendJSON(w, profiles, http.StatusOK)
}
