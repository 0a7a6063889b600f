// Package kernel contains shared value objects used across domain
// aggregates.
package kernel

import (
	"localoffice/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not initialized through
// one of the constructor functions. Returned when validating a zero value.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes",
)

// UUID is an immutable value object wrapping github.com/google/uuid. The
// zero value is invalid; construct through NewUUID, UUIDFromString, or
// UUIDFromBytes. Used as the identifier for every entity and aggregate.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4).
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses a UUID from its canonical string representation.
func UUIDFromString(value string) (UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", err)
	}
	return UUID{id: parsed}, nil
}

// UUIDFromBytes builds a UUID from a 16-byte slice.
func UUIDFromBytes(value []byte) (UUID, error) {
	parsed, err := uuid.FromBytes(value)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", err)
	}
	return UUID{id: parsed}, nil
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// IsEqual compares two UUIDs by value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// String returns the canonical textual form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID, used by the persistence layer.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}
