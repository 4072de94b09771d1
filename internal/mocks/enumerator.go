package mocks

import (
	"context"
	"net"

	"github.com/ooni/netservice/internal/model"
)

// AddressEnumerator is a mockable AddressEnumerator.
type AddressEnumerator struct {
	MockNext       func(ctx context.Context) (net.Addr, error)
	MockNextAsync  func(ctx context.Context, callback func(result *model.AsyncResult))
	MockNextFinish func(result *model.AsyncResult) (net.Addr, error)
}

var _ model.AddressEnumerator = &AddressEnumerator{}

// Next calls MockNext.
func (e *AddressEnumerator) Next(ctx context.Context) (net.Addr, error) {
	return e.MockNext(ctx)
}

// NextAsync calls MockNextAsync.
func (e *AddressEnumerator) NextAsync(ctx context.Context, callback func(result *model.AsyncResult)) {
	e.MockNextAsync(ctx, callback)
}

// NextFinish calls MockNextFinish.
func (e *AddressEnumerator) NextFinish(result *model.AsyncResult) (net.Addr, error) {
	return e.MockNextFinish(result)
}

// Connectable is a mockable Connectable.
type Connectable struct {
	MockEnumerate      func() model.AddressEnumerator
	MockProxyEnumerate func() model.AddressEnumerator
	MockString         func() string
}

var _ model.Connectable = &Connectable{}

// Enumerate calls MockEnumerate.
func (c *Connectable) Enumerate() model.AddressEnumerator {
	return c.MockEnumerate()
}

// ProxyEnumerate calls MockProxyEnumerate.
func (c *Connectable) ProxyEnumerate() model.AddressEnumerator {
	return c.MockProxyEnumerate()
}

// String calls MockString.
func (c *Connectable) String() string {
	return c.MockString()
}
