package http

import "errors"

var (
	// ErrNoSessionToken is returned when neither the session cookie nor the
	// "Authorization" header carries an access token.
	ErrNoSessionToken = errors.New("no session token provided")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header cannot be parsed as a bearer token.
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrEmptyToken is returned when the bearer scheme is present but the
	// token itself is empty.
	ErrEmptyToken = errors.New("empty token provided")

	// ErrStateMismatch is returned when the OAuth callback state does not
	// match the value set before the redirect.
	ErrStateMismatch = errors.New("oauth state mismatch")
)
