package http

import (
	"net/http"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
	"github.com/google/uuid"
)

// postSigninRedirect is where the browser lands after a completed OAuth
// sign-in, with session cookies already set.
const postSigninRedirect = "/dashboard"

// googleRedirect sends the browser to the Google consent page with a
// fresh anti-forgery state pinned in a short-lived cookie.
func (h *Handler) googleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		http.NotFound(w, r)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, h.stateCookie(state))

	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusFound)
}

// googleCallback completes the OAuth round-trip: it checks the state,
// redeems the authorization code for an external profile, and establishes
// a local session for the matching (or freshly created) identity.
func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	log := logger.FromRequest(r)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		log.Err(ErrStateMismatch).Msg("oauth callback rejected")
		writeError(w, ErrStateMismatch)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteJSON(w, models.ErrorResponse{Error: "missing authorization code"}, http.StatusBadRequest)
		return
	}

	profile, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		log.Err(err).Msg("oauth exchange failed")
		writeError(w, err)
		return
	}

	identity, pair, err := h.services.Sessions.OAuthCallback(ctx, profile.Email, profile.Name)
	if err != nil {
		log.Err(err).Msg("oauth session establishment failed")
		writeError(w, err)
		return
	}

	log.Debug().Str("id", identity.ID).Msg("oauth sign-in completed")

	h.setSessionCookies(w, pair)
	http.Redirect(w, r, postSigninRedirect, http.StatusFound)
}
