package model

//
// Address enumerators
//

import (
	"context"
	"net"

	"github.com/ooni/netservice/internal/erroror"
)

// AddressEnumerator yields, one at a time, the socket addresses that
// can be used to connect to something. At the end of the sequence, both
// Next and NextFinish return a nil address and [io.EOF].
//
// An AddressEnumerator is not safe for concurrent use: callers MUST wait for
// a call to complete before issuing the next one.
type AddressEnumerator interface {
	// Next blocks until the next address is available.
	Next(ctx context.Context) (net.Addr, error)

	// NextAsync starts retrieving the next address and invokes callback
	// exactly once when done. Pass the result to NextFinish.
	NextAsync(ctx context.Context, callback func(result *AsyncResult))

	// NextFinish returns the address or the error stored in result.
	NextFinish(result *AsyncResult) (net.Addr, error)
}

// AsyncResult is the result of a NextAsync call.
type AsyncResult struct {
	// Source is the enumerator that produced this result.
	Source AddressEnumerator

	// Result contains either the address or the error.
	Result erroror.Value[net.Addr]
}

// NewAsyncResult creates a new [*AsyncResult] instance.
func NewAsyncResult(source AddressEnumerator, addr net.Addr, err error) *AsyncResult {
	return &AsyncResult{
		Source: source,
		Result: erroror.Value[net.Addr]{Err: err, Value: addr},
	}
}

// Connectable is something we can connect to, such as a host and port
// pair, and which knows how to enumerate its socket addresses.
type Connectable interface {
	// Enumerate returns an enumerator yielding the addresses to connect
	// to directly.
	Enumerate() AddressEnumerator

	// ProxyEnumerate returns an enumerator yielding [*ProxyAddress] values
	// that take the configured proxies into account.
	ProxyEnumerate() AddressEnumerator

	// String returns the URI of this connectable.
	String() string
}
