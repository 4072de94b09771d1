package netxlite

import (
	"encoding/json"
	"errors"
)

// ErrWrapper is our error wrapper for Go errors. The key objective of
// this structure is to properly set Failure, which is also returned by
// the Error() method, to be one of the FailureXXX strings.
type ErrWrapper struct {
	// Failure is the failure string. This is either one of the FailureXXX
	// strings or a string like `unknown_failure: ...`, which represents an
	// error that we have not yet mapped to a failure.
	Failure string

	// Operation is the operation that failed.
	//
	// When an ErrWrapper wraps another ErrWrapper that refers to a
	// major operation (see majorOperations), the outer wrapper keeps
	// the inner operation. This way, the topmost wrapper always refers
	// to the innermost major operation that failed.
	Operation string

	// WrappedErr is the error that we're wrapping.
	WrappedErr error
}

// Error returns the failure string for this error.
func (e *ErrWrapper) Error() string {
	return e.Failure
}

// Unwrap allows to access the underlying error.
func (e *ErrWrapper) Unwrap() error {
	return e.WrappedErr
}

// MarshalJSON converts an ErrWrapper to a JSON value.
func (e *ErrWrapper) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Failure)
}

// classifier maps a Go error to a failure string.
type classifier func(err error) string

// NewErrWrapper creates a new ErrWrapper using the given classifier,
// operation name, and underlying error.
//
// This function panics if classifier is nil, or operation is the
// empty string or error is nil.
func NewErrWrapper(c classifier, op string, err error) *ErrWrapper {
	if c == nil {
		panic("nil classifier")
	}
	if op == "" {
		panic("empty op")
	}
	if err == nil {
		panic("nil err")
	}
	var wrapper *ErrWrapper
	if errors.As(err, &wrapper) {
		return &ErrWrapper{
			Failure:    wrapper.Failure,
			Operation:  classifyOperation(wrapper, op),
			WrappedErr: err,
		}
	}
	return &ErrWrapper{
		Failure:    c(err),
		Operation:  op,
		WrappedErr: err,
	}
}

// MaybeNewErrWrapper is like NewErrWrapper except that this
// function won't panic if passed a nil error.
func MaybeNewErrWrapper(c classifier, op string, err error) error {
	if err != nil {
		return NewErrWrapper(c, op, err)
	}
	return nil
}

// NewTopLevelGenericErrWrapper wraps an error occurring at top
// level using the generic classifier. This function panics if err is nil.
func NewTopLevelGenericErrWrapper(err error) *ErrWrapper {
	return NewErrWrapper(ClassifyGenericError, TopLevelOperation, err)
}

func classifyOperation(ew *ErrWrapper, operation string) string {
	if majorOperations[ew.Operation] {
		return ew.Operation
	}
	return operation
}
