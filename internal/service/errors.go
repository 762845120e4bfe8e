package service

import "errors"

var (
	ErrValidation = errors.New("invalid data provided")

	ErrDuplicateUsername         = errors.New("username is already taken")
	ErrDuplicateEmail            = errors.New("email is already registered")
	ErrDuplicateUsernameAndEmail = errors.New("username and email are already taken")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPasswordSet      = errors.New("account has no password set")

	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")

	ErrWeakSecret    = errors.New("secret is too short")
	ErrMalformedHash = errors.New("malformed secret hash")

	ErrUsernameGenerationExhausted = errors.New("could not generate a unique username")

	ErrNoFilesProvided    = errors.New("no files provided")
	ErrTooManyFiles       = errors.New("too many files in one request")
	ErrFileTooLarge       = errors.New("file exceeds the size limit")
	ErrUnsupportedContent = errors.New("unsupported file content type")
)
