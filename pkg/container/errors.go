package container

import "errors"

var (
	// ErrNotRegistered indicates a resolve of a name with no binding.
	ErrNotRegistered = errors.New("service not registered")
	// ErrAlreadyRegistered indicates a duplicate Register call for a name.
	ErrAlreadyRegistered = errors.New("service already registered")
	// ErrInvalidName indicates an empty service name.
	ErrInvalidName = errors.New("service name must not be empty")
	// ErrNilFactory indicates a nil factory function.
	ErrNilFactory = errors.New("factory must not be nil")
	// ErrCircularDependency indicates a cycle in factory dependencies.
	ErrCircularDependency = errors.New("circular dependency")
	// ErrWrongType indicates the bound instance does not match the requested type.
	ErrWrongType = errors.New("unexpected service type")
)
