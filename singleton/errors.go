package singleton

import "errors"

// Sentinel errors for factory operations.
var (
	// ErrInvalidID is returned when the type identifier is empty.
	ErrInvalidID = errors.New("singleton: type identifier is required")

	// ErrNilConstructor is returned when no constructor is supplied.
	ErrNilConstructor = errors.New("singleton: constructor is required")

	// ErrWrongType is returned by For when the cached instance does not
	// have the requested type.
	ErrWrongType = errors.New("singleton: cached instance has unexpected type")
)
