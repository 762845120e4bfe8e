package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two token classes issued by the token service.
// Each kind is signed with its own secret, so a token of one kind can never
// be verified through the other kind's verification path.
type TokenKind string

const (
	// TokenKindAccess is the short-lived token presented on every
	// authenticated request.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh is the long-lived token exchanged for a fresh pair.
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the payload carried by both access and refresh tokens.
//
// The identity ID travels in the standard "sub" claim; username and email
// are duplicated into custom claims so that request handling does not need
// a store round-trip for the common read paths. TokenVersion is compared
// against the version stored on the Identity, which is how sign-out and
// rotation invalidate tokens that have not yet expired.
type Claims struct {
	jwt.RegisteredClaims

	// Username of the subject at issue time.
	Username string `json:"username"`

	// Email of the subject at issue time, lowercased.
	Email string `json:"email"`

	// Kind marks the token as access or refresh.
	Kind TokenKind `json:"kind"`

	// TokenVersion is the subject's revocation counter at issue time.
	TokenVersion int64 `json:"token_version"`
}

// SubjectID returns the identity ID from the "sub" claim.
func (c Claims) SubjectID() string {
	return c.Subject
}

// TokenPair bundles the two signed tokens established for a session,
// together with their expiry instants for cookie max-age calculation.
type TokenPair struct {
	Access           string    `json:"-"`
	Refresh          string    `json:"-"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}
