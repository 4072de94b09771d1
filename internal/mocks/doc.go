// Package mocks contains mocks for the interfaces in the model package.
//
// Each mock is a struct with one MockXXX function field per method and
// calling a method whose MockXXX field is nil panics.
package mocks
