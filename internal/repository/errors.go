package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist at
	// operation time.
	ErrNotFound = errors.New("entity not found")

	// ErrWrongState is returned when an atomic operation finds its target
	// in a lifecycle state that no longer permits it.
	ErrWrongState = errors.New("entity in wrong state")

	// ErrDuplicate is returned when an insert loses to a uniqueness
	// constraint, e.g. a second rating for the same ride.
	ErrDuplicate = errors.New("entity already exists")
)
