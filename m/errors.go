package m

import "errors"

var (
	// ErrShapeMismatch is returned when a vector or example set does not match the
	// network topology. Nothing is mutated when it is returned.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidConfig is returned by NewNetwork for non-positive counts, rates or epochs.
	ErrInvalidConfig = errors.New("invalid network config")
)
