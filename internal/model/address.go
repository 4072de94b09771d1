package model

//
// Socket addresses
//

import (
	"net"
	"net/netip"
	"strconv"
)

// InetSocketAddress is an IP address and port. The zero value is invalid.
type InetSocketAddress struct {
	// AddrPort is the IP address and port.
	AddrPort netip.AddrPort
}

var _ net.Addr = &InetSocketAddress{}

// NewInetSocketAddress creates a new [*InetSocketAddress].
func NewInetSocketAddress(addr netip.Addr, port uint16) *InetSocketAddress {
	return &InetSocketAddress{AddrPort: netip.AddrPortFrom(addr, port)}
}

// Network implements net.Addr. We return "ip" because the transport
// protocol is chosen by whoever connects to this address.
func (a *InetSocketAddress) Network() string {
	return "ip"
}

// String implements net.Addr.
func (a *InetSocketAddress) String() string {
	return a.AddrPort.String()
}

// ProxyAddress is an address to connect to for reaching a destination
// through a proxy. When ProxyURI is "direct://" the address is the
// destination itself and no proxy is involved.
type ProxyAddress struct {
	// Address is the socket address to connect to.
	Address netip.AddrPort

	// ProxyURI is the proxy URI (e.g., socks5://127.0.0.1:9050).
	ProxyURI string

	// ProxyProtocol is the proxy protocol (e.g., socks5) or "direct".
	ProxyProtocol string

	// DestinationHostname is the final destination hostname.
	DestinationHostname string

	// DestinationPort is the final destination port.
	DestinationPort uint16

	// DestinationProtocol is the URI scheme used to reach the destination.
	DestinationProtocol string
}

var _ net.Addr = &ProxyAddress{}

// Network implements net.Addr.
func (a *ProxyAddress) Network() string {
	return "ip"
}

// String implements net.Addr.
func (a *ProxyAddress) String() string {
	return a.Address.String()
}

// Destination returns the destination endpoint as host:port.
func (a *ProxyAddress) Destination() string {
	return net.JoinHostPort(a.DestinationHostname, strconv.Itoa(int(a.DestinationPort)))
}

// IsDirect returns whether this address does not involve any proxy.
func (a *ProxyAddress) IsDirect() bool {
	return a.ProxyProtocol == "direct"
}
