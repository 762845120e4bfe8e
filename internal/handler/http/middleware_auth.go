package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/utils"
)

// auth is the middleware guarding every route that needs a signed-in
// caller. The access token is read from the session cookie first and from
// the "Authorization" header as a fallback, then resolved to the current
// identity via [service.SessionService.Authenticate]. The identity is
// stored in the request context under [utils.IdentityCtxKey].
//
// Requests are rejected with HTTP 401 Unauthorized when no token is
// present, the token is expired or malformed, or its embedded version no
// longer matches the stored one (sign-out and rotation both bump it).
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getAccessToken(r)
		if err != nil {
			log.Err(err).Send()
			writeError(w, service.ErrTokenInvalid)
			return
		}

		ctx := r.Context()
		identity, err := h.services.Sessions.Authenticate(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				log.Err(err).Msg("token expired")
			default:
				log.Err(err).Msg("error occurred during token authentication")
			}
			writeError(w, err)
			return
		}

		// Store the resolved identity in the context so that downstream
		// handlers can use it without re-parsing the token.
		ctx = utils.WithIdentity(ctx, identity)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getAccessToken extracts the access token from the request, preferring
// the session cookie over the "Authorization" header.
func getAccessToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoSessionToken
	}

	return getTokenFromAuthHeader(authHeader)
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the form "<scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
