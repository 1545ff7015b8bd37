package property

import "github.com/pkg/errors"

var (
	// ErrUninitialized is returned when a descriptor, or the bound asked
	// for, was never reported by the driver.
	ErrUninitialized = errors.New("property: uninitialized value")

	// ErrInvalidType is returned by operations that do not apply to the
	// property type, e.g. range bounds of an enum property.
	ErrInvalidType = errors.New("property: invalid type for operation")

	// ErrNotFound is returned by name and HAL value lookups that miss.
	ErrNotFound = errors.New("property: not found")

	// ErrInvalidValue is returned by Object.Set when the value fails
	// validation.
	ErrInvalidValue = errors.New("property: value out of domain")
)
