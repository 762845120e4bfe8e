package http

import (
	"net/http"
	"time"

	"github.com/darkdrop/darkdrop/models"
)

const (
	accessCookieName  = "token"
	refreshCookieName = "refreshToken"
	stateCookieName   = "oauthstate"

	stateCookieTTL = 10 * time.Minute
)

// setSessionCookies installs the access and refresh tokens as HttpOnly
// cookies whose lifetimes match the embedded expiry instants.
func (h *Handler) setSessionCookies(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, h.sessionCookie(accessCookieName, pair.Access, pair.AccessExpiresAt))
	http.SetCookie(w, h.sessionCookie(refreshCookieName, pair.Refresh, pair.RefreshExpiresAt))
}

// clearSessionCookies expires both session cookies immediately.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.SecureCookies,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func (h *Handler) sessionCookie(name, value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// stateCookie carries the anti-forgery state across the OAuth redirect.
// SameSite is Lax, not Strict: the callback arrives as a cross-site
// navigation and a Strict cookie would not be sent with it.
func (h *Handler) stateCookie(state string) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
