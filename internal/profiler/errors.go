package profiler

import (
	"errors"
	"fmt"
)

// Profiler errors.
var (
	// ErrInvalidArgument is returned by Wrap when the target declares no
	// profiled operation, or when the target is nil.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownOperation is returned (inside an InternalError) when a proxy
	// is asked to dispatch an operation missing from the target's tag table.
	ErrUnknownOperation = errors.New("operation not declared by target")
)

// InternalError reports a failure of the interception machinery itself.
// It is never used for errors returned by the wrapped operation, which are
// passed to the caller unchanged.
type InternalError struct {
	// Type is the concrete type of the wrapped target.
	Type string

	// Operation is the operation that was being dispatched.
	Operation string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return fmt.Sprintf("profiler: internal error dispatching %s#%s: %v", e.Type, e.Operation, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InternalError) Unwrap() error {
	return e.Err
}
