package hostaddr

import (
	"context"
	"io"
	"net"
	"net/netip"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
	"github.com/ooni/netservice/internal/runtimex"
)

// directEnumerator yields the addresses of a host and port pair.
type directEnumerator struct {
	addrs    []netip.Addr
	hostname string
	idx      int
	logger   model.Logger
	port     uint16
	resolved bool
	resolver model.Resolver
}

var _ model.AddressEnumerator = &directEnumerator{}

func newDirectEnumerator(
	reso model.Resolver, logger model.Logger, hostname string, port uint16) *directEnumerator {
	return &directEnumerator{
		hostname: hostname,
		logger:   logger,
		port:     port,
		resolver: reso,
	}
}

// Next implements model.AddressEnumerator.
func (e *directEnumerator) Next(ctx context.Context) (net.Addr, error) {
	addr, err := e.next(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewInetSocketAddress(addr, e.port), nil
}

// next returns the next IP address or io.EOF.
func (e *directEnumerator) next(ctx context.Context) (netip.Addr, error) {
	if err := ctx.Err(); err != nil {
		return netip.Addr{}, err
	}
	if !e.resolved {
		addrs, err := e.resolve(ctx)
		if err != nil {
			return netip.Addr{}, err // we'll retry on the next call
		}
		e.addrs, e.resolved = addrs, true
	}
	if e.idx >= len(e.addrs) {
		return netip.Addr{}, io.EOF
	}
	addr := e.addrs[e.idx]
	e.idx++
	return addr, nil
}

func (e *directEnumerator) resolve(ctx context.Context) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(e.hostname); err == nil {
		return []netip.Addr{addr.Unmap()}, nil
	}
	runtimex.Assert(e.resolver != nil, "hostaddr: passed nil Resolver")
	values, err := e.resolver.LookupHost(ctx, e.hostname)
	if err != nil {
		return nil, err
	}
	var addrs []netip.Addr
	for _, value := range values {
		addr, err := netip.ParseAddr(value)
		if err != nil {
			e.logger.Warnf("hostaddr: %s: ignoring invalid address %q", e.hostname, value)
			continue
		}
		addrs = append(addrs, addr.Unmap())
	}
	if len(addrs) <= 0 {
		return nil, netxlite.NewErrWrapper(
			netxlite.ClassifyResolverError,
			netxlite.ResolveOperation,
			netxlite.ErrOODNSNoAnswer,
		)
	}
	return addrs, nil
}

// NextAsync implements model.AddressEnumerator.
func (e *directEnumerator) NextAsync(ctx context.Context, callback func(result *model.AsyncResult)) {
	go func() {
		addr, err := e.Next(ctx)
		callback(model.NewAsyncResult(e, addr, err))
	}()
}

// NextFinish implements model.AddressEnumerator.
func (e *directEnumerator) NextFinish(result *model.AsyncResult) (net.Addr, error) {
	return finish(e, result)
}

// finish is the common implementation of NextFinish.
func finish(e model.AddressEnumerator, result *model.AsyncResult) (net.Addr, error) {
	runtimex.Assert(result != nil, "hostaddr: passed nil result")
	runtimex.Assert(result.Source == e, "hostaddr: result produced by another enumerator")
	return result.Result.Get()
}
