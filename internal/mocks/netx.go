package mocks

import (
	"context"
	"net"
	"time"

	"github.com/ooni/netservice/internal/model"
)

// Dialer is a mockable Dialer.
type Dialer struct {
	MockDialContext          func(ctx context.Context, network, address string) (net.Conn, error)
	MockCloseIdleConnections func()
}

var _ model.Dialer = &Dialer{}

// DialContext calls MockDialContext.
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return d.MockDialContext(ctx, network, address)
}

// CloseIdleConnections calls MockCloseIdleConnections.
func (d *Dialer) CloseIdleConnections() {
	d.MockCloseIdleConnections()
}

// Conn is a mockable net.Conn.
type Conn struct {
	MockRead             func(b []byte) (int, error)
	MockWrite            func(b []byte) (int, error)
	MockClose            func() error
	MockLocalAddr        func() net.Addr
	MockRemoteAddr       func() net.Addr
	MockSetDeadline      func(t time.Time) error
	MockSetReadDeadline  func(t time.Time) error
	MockSetWriteDeadline func(t time.Time) error
}

var _ net.Conn = &Conn{}

// Read calls MockRead.
func (c *Conn) Read(b []byte) (int, error) {
	return c.MockRead(b)
}

// Write calls MockWrite.
func (c *Conn) Write(b []byte) (int, error) {
	return c.MockWrite(b)
}

// Close calls MockClose.
func (c *Conn) Close() error {
	return c.MockClose()
}

// LocalAddr calls MockLocalAddr.
func (c *Conn) LocalAddr() net.Addr {
	return c.MockLocalAddr()
}

// RemoteAddr calls MockRemoteAddr.
func (c *Conn) RemoteAddr() net.Addr {
	return c.MockRemoteAddr()
}

// SetDeadline calls MockSetDeadline.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.MockSetDeadline(t)
}

// SetReadDeadline calls MockSetReadDeadline.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.MockSetReadDeadline(t)
}

// SetWriteDeadline calls MockSetWriteDeadline.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.MockSetWriteDeadline(t)
}

// Resolver is a mockable Resolver.
type Resolver struct {
	MockLookupHost           func(ctx context.Context, domain string) ([]string, error)
	MockLookupService        func(ctx context.Context, service, protocol, domain string) ([]*model.Target, error)
	MockNetwork              func() string
	MockAddress              func() string
	MockCloseIdleConnections func()
}

var _ model.Resolver = &Resolver{}

// LookupHost calls MockLookupHost.
func (r *Resolver) LookupHost(ctx context.Context, domain string) ([]string, error) {
	return r.MockLookupHost(ctx, domain)
}

// LookupService calls MockLookupService.
func (r *Resolver) LookupService(ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	return r.MockLookupService(ctx, service, protocol, domain)
}

// Network calls MockNetwork.
func (r *Resolver) Network() string {
	return r.MockNetwork()
}

// Address calls MockAddress.
func (r *Resolver) Address() string {
	return r.MockAddress()
}

// CloseIdleConnections calls MockCloseIdleConnections.
func (r *Resolver) CloseIdleConnections() {
	r.MockCloseIdleConnections()
}

// ServiceResolver is a mockable ServiceResolver.
type ServiceResolver struct {
	MockLookupService func(ctx context.Context, service, protocol, domain string) ([]*model.Target, error)

	MockLookupServiceAsync func(ctx context.Context, service, protocol, domain string,
		callback func(targets []*model.Target, err error))
}

var _ model.ServiceResolver = &ServiceResolver{}

// LookupService calls MockLookupService.
func (r *ServiceResolver) LookupService(ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	return r.MockLookupService(ctx, service, protocol, domain)
}

// LookupServiceAsync calls MockLookupServiceAsync.
func (r *ServiceResolver) LookupServiceAsync(ctx context.Context, service, protocol, domain string,
	callback func(targets []*model.Target, err error)) {
	r.MockLookupServiceAsync(ctx, service, protocol, domain, callback)
}

// ProxyResolver is a mockable ProxyResolver.
type ProxyResolver struct {
	MockLookup func(ctx context.Context, uri string) ([]string, error)
}

var _ model.ProxyResolver = &ProxyResolver{}

// Lookup calls MockLookup.
func (r *ProxyResolver) Lookup(ctx context.Context, uri string) ([]string, error) {
	return r.MockLookup(ctx, uri)
}

// DNSTransport is a mockable DNSTransport.
type DNSTransport struct {
	MockRoundTrip            func(ctx context.Context, query []byte) ([]byte, error)
	MockRequiresPadding      func() bool
	MockNetwork              func() string
	MockAddress              func() string
	MockCloseIdleConnections func()
}

var _ model.DNSTransport = &DNSTransport{}

// RoundTrip calls MockRoundTrip.
func (txp *DNSTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	return txp.MockRoundTrip(ctx, query)
}

// RequiresPadding calls MockRequiresPadding.
func (txp *DNSTransport) RequiresPadding() bool {
	return txp.MockRequiresPadding()
}

// Network calls MockNetwork.
func (txp *DNSTransport) Network() string {
	return txp.MockNetwork()
}

// Address calls MockAddress.
func (txp *DNSTransport) Address() string {
	return txp.MockAddress()
}

// CloseIdleConnections calls MockCloseIdleConnections.
func (txp *DNSTransport) CloseIdleConnections() {
	txp.MockCloseIdleConnections()
}
