package http

import (
	"encoding/json"
	"net/http"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	utils.WriteJSON(w, models.NewUserResponse(identity), http.StatusOK)
}

// updateProfile applies a partial identity mutation. Every successful
// update rotates the session, so fresh cookies are installed and tokens
// issued before the update stop working.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.IdentityFromContext(ctx)
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON payload"}, http.StatusBadRequest)
		return
	}

	updated, pair, err := h.services.Sessions.UpdateProfile(ctx, identity.ID, update)
	if err != nil {
		log.Err(err).Msg("profile update failed")
		writeError(w, err)
		return
	}

	h.setSessionCookies(w, pair)
	utils.WriteJSON(w, models.SessionResponse{
		Message: "profile updated",
		User:    models.NewUserResponse(updated),
	}, http.StatusOK)
}
