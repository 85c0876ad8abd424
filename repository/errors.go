// Package repository provides typed CRUD over the Record Store for
// medicines, the user profile and family members.
//
// Every mutating call is a single read-modify-write of the whole collection
// performed under the collection's store lock, so concurrent callers never
// observe a partially applied change.
package repository

import (
	"errors"
	"fmt"

	"github.com/arkantrust/meditrack/store"
)

var (
	// ErrNotFound is returned when a referenced id is not in the collection.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid record")

	// ErrStoreCorrupted aliases store.ErrCorrupted so callers can branch on all
	// three outcomes from this package alone.
	ErrStoreCorrupted = store.ErrCorrupted
)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
