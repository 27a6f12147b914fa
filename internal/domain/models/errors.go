package models

import "errors"

// Sentinel errors shared across store and use cases. The HTTP layer maps
// these onto response codes; everything else just wraps them.
var (
	// ErrNotFound is returned when a signal id does not exist in the store.
	ErrNotFound = errors.New("signal not found")

	// ErrInvalidTransition is returned when approve/reject is attempted on a
	// signal that is not PENDING. Terminal states never transition again.
	ErrInvalidTransition = errors.New("signal is not pending")

	// ErrDuplicateID is returned when Create sees an id that already exists.
	// Ids are generated from UUIDs, so hitting this means a broken invariant.
	ErrDuplicateID = errors.New("duplicate signal id")
)
