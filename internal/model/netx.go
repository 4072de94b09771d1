package model

//
// Network extensions
//

import (
	"context"
	"fmt"
	"net"
)

// Target is one ranked candidate host and port for a service, as produced by
// a DNS SRV lookup. See RFC 2782.
//
// A resolver returns targets already in the order in which they should be
// tried. Code consuming targets MUST NOT reorder them.
type Target struct {
	// Hostname is the target hostname, which may not be ASCII.
	Hostname string

	// Port is the target port.
	Port uint16

	// Priority is the target priority (lower is preferred).
	Priority uint16

	// Weight is the relative weight among targets with the same priority.
	Weight uint16
}

// String implements fmt.Stringer.
func (t *Target) String() string {
	return fmt.Sprintf("%s:%d (priority=%d weight=%d)", t.Hostname, t.Port, t.Priority, t.Weight)
}

// Dialer establishes network connections.
type Dialer interface {
	// DialContext behaves like net.Dialer.DialContext.
	DialContext(ctx context.Context, network, address string) (net.Conn, error)

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// Resolver performs domain name and service resolutions.
type Resolver interface {
	// LookupHost behaves like net.Resolver.LookupHost.
	LookupHost(ctx context.Context, hostname string) (addrs []string, err error)

	// LookupService resolves _service._protocol.domain using SRV records
	// and returns the targets sorted as RFC 2782 mandates.
	LookupService(ctx context.Context, service, protocol, domain string) ([]*Target, error)

	// Network returns the resolver type (e.g., system, udp, tcp).
	Network() string

	// Address returns the resolver address (e.g., 8.8.8.8:53).
	Address() string

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// ServiceResolver is the capability to resolve services in both
// blocking and continuation style.
type ServiceResolver interface {
	// LookupService is like Resolver.LookupService.
	LookupService(ctx context.Context, service, protocol, domain string) ([]*Target, error)

	// LookupServiceAsync is like LookupService except that it returns
	// immediately and calls callback exactly once when done.
	LookupServiceAsync(ctx context.Context, service, protocol, domain string,
		callback func(targets []*Target, err error))
}

// ProxyResolver tells which proxies to use to reach a given URI.
type ProxyResolver interface {
	// Lookup returns the list of proxy URIs to try, in order, to reach uri. The
	// special value "direct://" means connecting without a proxy.
	Lookup(ctx context.Context, uri string) ([]string, error)
}

// DNSTransport sends raw DNS queries and receives raw DNS replies.
type DNSTransport interface {
	// RoundTrip sends query and returns the reply.
	RoundTrip(ctx context.Context, query []byte) ([]byte, error)

	// RequiresPadding returns whether this transport needs padding.
	RequiresPadding() bool

	// Network is the network of the round tripper (e.g., "udp").
	Network() string

	// Address is the address of the round tripper (e.g., "1.1.1.1:53").
	Address() string

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}
