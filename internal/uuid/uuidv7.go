// Package uuid wraps github.com/google/uuid with the identifier conventions used
// across the ledger: every primary key is a time-ordered UUIDv7.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// UUID is the identifier type used by all models.
type UUID = googleuuid.UUID

// Nil is the zero identifier.
var Nil = googleuuid.Nil

// New generates a new UUIDv7 based on the current timestamp.
// UUIDv7 is time-ordered and suitable for use as database primary keys.
//
// Format (RFC 9562):
// - 48 bits: Unix timestamp in milliseconds
// - 4 bits: version (0111 = 7)
// - 12 bits: random data
// - 2 bits: variant (10)
// - 62 bits: random data
func New() UUID {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the entropy source fails
		return googleuuid.New()
	}
	return id
}

// Parse validates and parses a UUID string.
func Parse(s string) (UUID, error) {
	return googleuuid.Parse(s)
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// FromName derives a stable identifier from a name, used for seeded rows that
// must keep the same id across restarts.
func FromName(name string) UUID {
	return googleuuid.NewSHA1(googleuuid.NameSpaceOID, []byte(name))
}
