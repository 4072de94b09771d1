// Package runtimex contains runtime extensions. We use the functions in this
// package to turn programming errors (i.e., broken invariants and misuse of an
// API) into panics, which is what the standard library does too.
package runtimex

import "fmt"

// PanicOnError calls panic() if err is not nil. The panic value wraps err.
func PanicOnError(err error, message string) {
	if err != nil {
		panic(fmt.Errorf("%s: %w", message, err))
	}
}

// Assert calls panic with message if assertion is false.
func Assert(assertion bool, message string) {
	if !assertion {
		panic(message)
	}
}

// PanicIfTrue calls panic with message if assertion is true.
func PanicIfTrue(assertion bool, message string) {
	Assert(!assertion, message)
}

// Try0 panics if err is not nil.
func Try0(err error) {
	PanicOnError(err, "Try0")
}

// Try1 panics if err is not nil and otherwise returns value.
func Try1[T any](value T, err error) T {
	PanicOnError(err, "Try1")
	return value
}
