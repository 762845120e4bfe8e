// Package store implements the persistence boundary of the application.
//
// Two backends are provided behind the same repository interfaces: a
// MongoDB document store (the primary deployment target) and a PostgreSQL
// relational store. Both rely exclusively on single-round-trip atomic
// primitives — uniqueness-checked inserts, conditional updates, upserts —
// so that concurrent requests can never interleave between a read and a
// dependent write.
package store

import (
	"context"

	"github.com/darkdrop/darkdrop/models"
)

// IdentityRepository owns durable identity records. No other component may
// persist identity data.
type IdentityRepository interface {
	// Create inserts a new identity. Uniqueness of username and email is
	// enforced by the store itself (unique index / constraint), not by a
	// separate read: concurrent creates with the same username or email
	// resolve to exactly one winner. Returns ErrUsernameAlreadyExists or
	// ErrEmailAlreadyExists on conflict.
	Create(ctx context.Context, identity models.Identity) (models.Identity, error)

	// FindByID looks an identity up by its stable identifier.
	// Returns ErrIdentityNotFound when absent.
	FindByID(ctx context.Context, id string) (models.Identity, error)

	// FindByEmail looks an identity up by lowercased email.
	FindByEmail(ctx context.Context, email string) (models.Identity, error)

	// FindByUsername looks an identity up by exact username.
	FindByUsername(ctx context.Context, username string) (models.Identity, error)

	// FindByLogin looks an identity up by username or email in one query.
	FindByLogin(ctx context.Context, usernameOrEmail string) (models.Identity, error)

	// Update persists the mutable profile fields (username, email,
	// secret hash, display name) of the given identity under the same
	// atomicity rules as Create.
	Update(ctx context.Context, identity models.Identity) (models.Identity, error)

	// BumpTokenVersion atomically increments the identity's revocation
	// counter and returns the new value.
	BumpTokenVersion(ctx context.Context, id string) (int64, error)
}

// FileIndexRepository owns the per-identity shared-file indexes, keyed by
// the identity's current email.
type FileIndexRepository interface {
	// Find returns the index owned by email.
	// Returns ErrFileIndexNotFound when the owner has no index yet.
	Find(ctx context.Context, ownerEmail string) (models.FileIndex, error)

	// AppendEntries adds entries to the owner's index, creating the index
	// if it does not exist (upsert semantics).
	AppendEntries(ctx context.Context, ownerEmail string, entries []models.FileEntry) error

	// RenameEntry sets a new display label on the entry identified by its
	// blob URL. Returns ErrFileEntryNotFound if no such entry exists.
	RenameEntry(ctx context.Context, ownerEmail, filePath, fileName string) error

	// RemoveEntry deletes the entry identified by its blob URL.
	// Returns ErrFileEntryNotFound if no such entry exists.
	RemoveEntry(ctx context.Context, ownerEmail, filePath string) error

	// RenameOwner atomically re-keys the index from oldEmail to newEmail.
	// Returns ErrFileIndexNotFound when oldEmail owns no index (the caller
	// treats that as an idempotent no-op) and ErrRekeyConflict when
	// newEmail already owns a different index (the caller must merge).
	RenameOwner(ctx context.Context, oldEmail, newEmail string) error

	// Replace overwrites (or creates) the index keyed by index.OwnerEmail.
	Replace(ctx context.Context, index models.FileIndex) error

	// Delete removes the index owned by email. Deleting a missing index
	// is not an error.
	Delete(ctx context.Context, ownerEmail string) error
}
