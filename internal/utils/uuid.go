package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for identities and file
// entries. UUIDv7 keeps index locality in both store backends; the random
// v4 fallback only triggers when the system clock source fails.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
