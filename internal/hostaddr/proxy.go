package hostaddr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"net/url"
	"strconv"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

// ErrUnsupportedProxy indicates that the proxy resolver returned a proxy
// whose scheme we don't know how to use.
var ErrUnsupportedProxy = errors.New("hostaddr: unsupported proxy")

// defaultProxyPorts maps the supported proxy schemes to their default port.
var defaultProxyPorts = map[string]uint16{
	"http":    8080,
	"https":   443,
	"socks4":  1080,
	"socks4a": 1080,
	"socks5":  1080,
	"socks5h": 1080,
}

// proxyEnumerator yields [*model.ProxyAddress] values for each proxy
// returned by the proxy resolver, in order.
type proxyEnumerator struct {
	c        *Connectable
	current  *proxyIterator
	deferred error
	idx      int
	proxies  []string
	resolved bool
}

var _ model.AddressEnumerator = &proxyEnumerator{}

// proxyIterator yields the addresses to use for a single proxy URI.
type proxyIterator struct {
	inner    *directEnumerator
	protocol string
	uri      string
}

// Next implements model.AddressEnumerator.
func (e *proxyEnumerator) Next(ctx context.Context) (net.Addr, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.resolved {
		proxies, err := e.c.proxyResolver.Lookup(ctx, e.c.uri)
		if err != nil {
			return nil, netxlite.NewErrWrapper(
				netxlite.ClassifyGenericError, netxlite.ProxyLookupOperation, err)
		}
		e.proxies, e.resolved = proxies, true
	}
	for {
		if e.current == nil {
			if e.idx >= len(e.proxies) {
				return nil, e.exhausted()
			}
			uri := e.proxies[e.idx]
			e.idx++
			current, err := e.newProxyIterator(uri)
			if err != nil {
				e.c.logger.Warnf("hostaddr: skipping proxy %s: %s", uri, err.Error())
				e.maybeDefer(err)
				continue
			}
			e.current = current
		}
		addr, err := e.current.inner.next(ctx)
		if errors.Is(err, io.EOF) {
			e.current = nil
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, err // keep the current proxy so we can resume
			}
			e.maybeDefer(err)
			e.current = nil
			continue
		}
		pa := &model.ProxyAddress{
			Address:             netip.AddrPortFrom(addr, e.current.inner.port),
			ProxyURI:            e.current.uri,
			ProxyProtocol:       e.current.protocol,
			DestinationHostname: e.c.hostname,
			DestinationPort:     e.c.port,
			DestinationProtocol: e.c.scheme,
		}
		return pa, nil
	}
}

func (e *proxyEnumerator) exhausted() error {
	if err := e.deferred; err != nil {
		e.deferred = nil
		return err
	}
	return io.EOF
}

func (e *proxyEnumerator) maybeDefer(err error) {
	if e.deferred == nil {
		e.deferred = err
	}
}

func (e *proxyEnumerator) newProxyIterator(uri string) (*proxyIterator, error) {
	if uri == netxlite.DirectProxyURI {
		pi := &proxyIterator{
			inner:    newDirectEnumerator(e.c.config.Resolver, e.c.logger, e.c.hostname, e.c.port),
			protocol: "direct",
			uri:      uri,
		}
		return pi, nil
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, e.unsupported(uri, err)
	}
	defaultPort, found := defaultProxyPorts[parsed.Scheme]
	if !found || parsed.Hostname() == "" {
		return nil, e.unsupported(uri, nil)
	}
	port := defaultPort
	if value := parsed.Port(); value != "" {
		number, err := strconv.ParseUint(value, 10, 16)
		if err != nil || number == 0 {
			return nil, e.unsupported(uri, err)
		}
		port = uint16(number)
	}
	pi := &proxyIterator{
		inner:    newDirectEnumerator(e.c.config.Resolver, e.c.logger, parsed.Hostname(), port),
		protocol: parsed.Scheme,
		uri:      uri,
	}
	return pi, nil
}

func (e *proxyEnumerator) unsupported(uri string, err error) error {
	if err != nil {
		err = fmt.Errorf("%w %q: %w", ErrUnsupportedProxy, uri, err)
	} else {
		err = fmt.Errorf("%w %q", ErrUnsupportedProxy, uri)
	}
	return netxlite.NewErrWrapper(classifyProxyError, netxlite.ProxyLookupOperation, err)
}

func classifyProxyError(err error) string {
	return netxlite.FailureUnsupportedProxy
}

// NextAsync implements model.AddressEnumerator.
func (e *proxyEnumerator) NextAsync(ctx context.Context, callback func(result *model.AsyncResult)) {
	go func() {
		addr, err := e.Next(ctx)
		callback(model.NewAsyncResult(e, addr, err))
	}()
}

// NextFinish implements model.AddressEnumerator.
func (e *proxyEnumerator) NextFinish(result *model.AsyncResult) (net.Addr, error) {
	return finish(e, result)
}
