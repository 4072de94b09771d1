// Package erroror contains code to represent an error or a value.
package erroror

// Value represents an error or a value. When Err is not nil, Value
// SHOULD be the zero value of Type.
type Value[Type any] struct {
	Err   error
	Value Type
}

// Get returns the value and the error as a pair.
func (v Value[Type]) Get() (Type, error) {
	return v.Value, v.Err
}
