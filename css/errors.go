package css

import (
	"errors"
)

// ErrDuplicatePart is matched by every *DuplicatePartError.
//
//nolint:staticcheck // message text is part of the contract
var ErrDuplicatePart = errors.New("Element, id and pseudo-element should not occur more than one time inside the selector")

// DuplicatePartError is returned when element, id or pseudo-element is
// appended to a simple selector which already has one.
type DuplicatePartError struct {
	Kind PartKind // rejected kind
	Name string   // rejected name
}

func (e *DuplicatePartError) Error() string {
	return ErrDuplicatePart.Error()
}

func (e *DuplicatePartError) Unwrap() error {
	return ErrDuplicatePart
}
