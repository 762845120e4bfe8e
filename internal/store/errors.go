package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when an insert or update would
	// violate the username uniqueness invariant.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrEmailAlreadyExists is returned when an insert or update would
	// violate the email uniqueness invariant.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrIdentityAlreadyExists is returned for a uniqueness violation the
	// store cannot attribute to the username or email specifically.
	ErrIdentityAlreadyExists = errors.New("identity already exists")

	// ErrIdentityNotFound is returned when a lookup expected to match an
	// identity record produces an empty result.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrFileIndexNotFound is returned when an owner has no file index.
	ErrFileIndexNotFound = errors.New("file index not found")

	// ErrFileEntryNotFound is returned when a rename or remove targets a
	// file entry (identified by owner email and blob URL) that does not
	// exist.
	ErrFileEntryNotFound = errors.New("file entry not found")

	// ErrRekeyConflict is returned when re-keying a file index would
	// collide with an index already owned by the new key. The two indexes
	// must be merged by the caller.
	ErrRekeyConflict = errors.New("file index rekey conflict")

	// ErrUnsupportedDSN is returned at startup when the configured
	// connection string matches no known backend scheme.
	ErrUnsupportedDSN = errors.New("unsupported database DSN scheme")
)
