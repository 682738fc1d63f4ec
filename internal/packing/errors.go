package packing

import "errors"

var (
	// ErrUnknownContainerType is returned when the container identifier is not in the catalog.
	ErrUnknownContainerType = errors.New("unknown container type")
	// ErrInvalidItem is returned by NewItem when dimensions or weight are not positive or the quantity is negative.
	ErrInvalidItem = errors.New("item dimensions and weight must be positive and quantity non-negative")
)
