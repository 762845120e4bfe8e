package service

import (
	"context"

	"github.com/darkdrop/darkdrop/models"
)

// PasswordHasher is the one-way transform applied to account secrets.
// Isolated behind an interface so the cost parameter and algorithm can
// change without touching callers.
type PasswordHasher interface {
	// Hash returns the salted hash of secret. Fails with ErrWeakSecret if
	// the secret is shorter than the configured minimum.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches hash. A mismatch returns
	// (false, nil); only malformed inputs produce an error
	// (ErrMalformedHash).
	Verify(secret, hash string) (bool, error)
}

// TokenService mints and verifies the two classes of session tokens.
// Issuance and verification are pure in-memory computations, safe for
// unbounded concurrent use.
type TokenService interface {
	// IssuePair mints a fresh access+refresh pair for the identity,
	// embedding its current token version.
	IssuePair(ctx context.Context, identity models.Identity) (models.TokenPair, error)

	// VerifyAccess parses and validates an access-kind token.
	// Fails with ErrTokenExpired or ErrTokenInvalid.
	VerifyAccess(ctx context.Context, token string) (models.Claims, error)

	// VerifyRefresh parses and validates a refresh-kind token.
	// Fails with ErrTokenExpired or ErrTokenInvalid.
	VerifyRefresh(ctx context.Context, token string) (models.Claims, error)
}

// LinkageSynchronizer keeps per-owner file indexes keyed by the owning
// identity's current email across email changes.
type LinkageSynchronizer interface {
	// Rekey moves the file index from oldOwnerKey to newOwnerKey. When
	// newOwnerKey already owns an index the two are merged. Idempotent:
	// repeating a completed rekey is a no-op.
	Rekey(ctx context.Context, oldOwnerKey, newOwnerKey string) error
}

// SessionService orchestrates the credential lifecycle: signup, signin,
// OAuth entry, token refresh, sign-out, and profile mutation.
type SessionService interface {
	Signup(ctx context.Context, req models.SignupRequest) (models.Identity, models.TokenPair, error)
	Signin(ctx context.Context, req models.SigninRequest) (models.Identity, models.TokenPair, error)
	OAuthCallback(ctx context.Context, externalEmail, externalName string) (models.Identity, models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.Identity, models.TokenPair, error)
	SignOut(ctx context.Context, identityID string) error

	// Authenticate validates an access token and resolves it to the
	// current identity record, rejecting tokens whose embedded version no
	// longer matches the stored one.
	Authenticate(ctx context.Context, accessToken string) (models.Identity, error)

	// UpdateProfile applies a partial mutation. An email change re-keys
	// the owner's file index before success is reported, and every
	// successful update rotates the session (all older tokens become
	// invalid).
	UpdateProfile(ctx context.Context, identityID string, update models.ProfileUpdate) (models.Identity, models.TokenPair, error)

	// CheckAvailability probes whether a username and/or email are free.
	CheckAvailability(ctx context.Context, req models.AvailabilityRequest) (models.Availability, error)
}

// FileService manages the authenticated user's shared-file index and the
// upload pass-through to the blob store.
type FileService interface {
	// List returns the owner's index; an owner with no uploads yet gets
	// an empty index, not an error.
	List(ctx context.Context, ownerEmail string) (models.FileIndex, error)

	// Rename changes the display label of the entry with the given URL.
	Rename(ctx context.Context, ownerEmail, fileURL, fileName string) error

	// Remove deletes the entry with the given URL from the index.
	Remove(ctx context.Context, ownerEmail, fileURL string) error

	// Upload validates the batch, passes each file through to the blob
	// store, and appends the resulting entries to the owner's index.
	Upload(ctx context.Context, ownerEmail string, files []models.UploadFile) (models.UploadResult, error)
}
