package models

import "time"

// Identity represents one human account. It is the only durable record of
// who a user is; every other document in the system refers back to it either
// by ID (tokens) or by current email (the shared-file index).
// Sensitive fields must never be exposed outside trusted boundaries.
type Identity struct {
	// ID is the opaque stable identifier assigned at creation.
	// It never changes for the lifetime of the account.
	ID string `json:"id" bson:"_id"`

	// Username is unique across all identities, 3-50 characters.
	Username string `json:"username" bson:"username"`

	// Email is unique across all identities and stored lowercased.
	Email string `json:"email" bson:"email"`

	// SecretHash is the bcrypt hash of the account password.
	// Empty for accounts created through an OAuth provider.
	// Never serialized to JSON.
	SecretHash string `json:"-" bson:"secret_hash,omitempty"`

	// DisplayName is an optional human-readable name (e.g. from the
	// OAuth profile).
	DisplayName string `json:"display_name,omitempty" bson:"display_name,omitempty"`

	// TokenVersion is the revocation counter embedded into every issued
	// token. Incrementing it invalidates all previously issued tokens.
	TokenVersion int64 `json:"-" bson:"token_version"`

	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// UpdatedAt is the timestamp of the last profile mutation.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasPassword reports whether the account can be used for password sign-in.
// OAuth-only accounts have no secret hash.
func (i Identity) HasPassword() bool {
	return i.SecretHash != ""
}

// TableName returns the name of the database table (or collection)
// associated with the Identity model.
func (i Identity) TableName() string {
	return "identities"
}
