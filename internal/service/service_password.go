package service

import (
	"errors"
	"fmt"

	"github.com/darkdrop/darkdrop/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// passwordHasher is the bcrypt implementation of PasswordHasher. bcrypt
// salts internally and compares in constant time, which covers the whole
// side-channel requirement for this service.
type passwordHasher struct {
	cost      int
	minLength int
}

// NewPasswordHasher constructs a PasswordHasher with the cost and minimum
// secret length taken from cfg.
func NewPasswordHasher(cfg config.App) PasswordHasher {
	return &passwordHasher{
		cost:      cfg.BcryptCost,
		minLength: cfg.MinPasswordLength,
	}
}

// Hash returns the bcrypt hash of secret.
//
// Returns ErrWeakSecret if the secret is shorter than the configured
// minimum, or a wrapped error if hashing itself fails (e.g. secret longer
// than bcrypt's 72-byte input limit).
func (p *passwordHasher) Hash(secret string) (string, error) {
	if len(secret) < p.minLength {
		return "", fmt.Errorf("%w: minimum length is %d", ErrWeakSecret, p.minLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), p.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing secret: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether secret matches hash. A mismatch is a normal
// (false, nil) answer; ErrMalformedHash is returned only when the stored
// hash cannot be parsed as a bcrypt blob.
func (p *passwordHasher) Verify(secret, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
}
