// Package common defines the sentinel errors shared by all layers of the
// weather dashboard. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Input validation errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("invalid range")

	// Account errors.
	ErrNotFound           = errors.New("not found")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Favourites errors.
	ErrNotAFavourite = errors.New("location is not a favourite")

	// Upstream provider errors.
	ErrLocationNotFound    = errors.New("location not found")
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

	// Infrastructure errors.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPartialFailure marks a composite lookup that failed part-way.
	// The concrete value is always a *PartialFailureError.
	ErrPartialFailure = errors.New("partial failure")
)

// PartialFailureError reports which location broke an all-favourites lookup.
// It matches ErrPartialFailure via errors.Is and unwraps to the cause.
type PartialFailureError struct {
	Location string
	Err      error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: location %q: %v", e.Location, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}
