package http

import (
	"encoding/json"
	"net/http"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON payload"}, http.StatusBadRequest)
		return
	}

	identity, pair, err := h.services.Sessions.Signup(ctx, req)
	if err != nil {
		log.Err(err).Msg("signup failed")
		writeError(w, err)
		return
	}

	log.Debug().Str("id", identity.ID).Str("username", identity.Username).Msg("identity registered")

	h.setSessionCookies(w, pair)
	utils.WriteJSON(w, models.SessionResponse{
		Message: "signup successful",
		User:    models.NewUserResponse(identity),
	}, http.StatusCreated)
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON payload"}, http.StatusBadRequest)
		return
	}

	identity, pair, err := h.services.Sessions.Signin(ctx, req)
	if err != nil {
		log.Err(err).Msg("signin failed")
		writeError(w, err)
		return
	}

	log.Debug().Str("id", identity.ID).Msg("identity signed in")

	h.setSessionCookies(w, pair)
	utils.WriteJSON(w, models.SessionResponse{
		Message: "signin successful",
		User:    models.NewUserResponse(identity),
	}, http.StatusOK)
}

// refresh exchanges the refresh cookie for a fresh token pair. The old
// pair stops working: rotation bumps the stored token version.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		log.Err(ErrNoSessionToken).Msg("no refresh token cookie")
		writeError(w, service.ErrTokenInvalid)
		return
	}

	identity, pair, err := h.services.Sessions.Refresh(ctx, cookie.Value)
	if err != nil {
		log.Err(err).Msg("token refresh failed")
		h.clearSessionCookies(w)
		writeError(w, err)
		return
	}

	h.setSessionCookies(w, pair)
	utils.WriteJSON(w, models.SessionResponse{
		Message: "token refreshed",
		User:    models.NewUserResponse(identity),
	}, http.StatusOK)
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.IdentityFromContext(ctx)
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	if err := h.services.Sessions.SignOut(ctx, identity.ID); err != nil {
		log.Err(err).Msg("sign-out failed")
		writeError(w, err)
		return
	}

	h.clearSessionCookies(w)
	utils.WriteJSON(w, models.MessageResponse{Message: "signed out"}, http.StatusOK)
}

func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON payload"}, http.StatusBadRequest)
		return
	}

	availability, err := h.services.Sessions.CheckAvailability(ctx, req)
	if err != nil {
		log.Err(err).Msg("availability check failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, availability, http.StatusOK)
}
