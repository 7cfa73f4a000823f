package fixtures

import "errors"

var (
	// ErrUnresolvableType is returned when a model name matches no registered type
	ErrUnresolvableType = errors.New("unresolvable model type")

	// ErrUnknownOperation is returned when a call is neither a creation nor a lookup
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrNotPersistable is returned when a registered type cannot be stored
	ErrNotPersistable = errors.New("type is not persistable")

	// ErrRecordNotFound is returned by a Store when a re-query finds nothing
	ErrRecordNotFound = errors.New("record not found")
)
