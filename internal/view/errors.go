package view

import "errors"

// Errors reported by views. Operations recover from them locally: they are logged
// with the "err" attribute and the operation returns false or a nil value.
var (
	// ErrOutOfRange is reported for a row index outside the view.
	ErrOutOfRange = errors.New("index out of range")
	// ErrInvalidReference is reported for a nil or absent item argument.
	ErrInvalidReference = errors.New("invalid item reference")
	// ErrVetoed is reported when an observer declines a mutation.
	ErrVetoed = errors.New("mutation vetoed")
	// ErrUnknownRole is reported for a role or role name the view does not have.
	ErrUnknownRole = errors.New("unknown role")
	// ErrReadOnly is reported for writes to a read-only view.
	ErrReadOnly = errors.New("view is read-only")
	// ErrNotAView is returned when wrapping something that is not a view.
	ErrNotAView = errors.New("not a tabular view")
)
