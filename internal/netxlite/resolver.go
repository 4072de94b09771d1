package netxlite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ooni/netservice/internal/idnax"
	"github.com/ooni/netservice/internal/model"
)

// NewResolverStdlib creates a new Resolver by combining WrapResolver
// with an internal "system" resolver type based on net.Resolver.
func NewResolverStdlib(logger model.Logger) model.Resolver {
	return WrapResolver(logger, &resolverSystem{})
}

// NewResolverUDP creates a new Resolver by combining WrapResolver with
// a SerialResolver attached to a DNSOverUDP transport.
func NewResolverUDP(logger model.Logger, dialer model.Dialer, address string) model.Resolver {
	return WrapResolver(logger, NewUnwrappedSerialResolver(
		NewUnwrappedDNSOverUDPTransport(dialer, address),
	))
}

// NewResolverTCP creates a new Resolver by combining WrapResolver with
// a SerialResolver attached to a DNSOverTCP transport.
func NewResolverTCP(logger model.Logger, dialer model.Dialer, address string) model.Resolver {
	return WrapResolver(logger, NewUnwrappedSerialResolver(
		NewUnwrappedDNSOverTCPTransport(dialer, address),
	))
}

// WrapResolver creates a new resolver that wraps an
// existing resolver to add these properties:
//
// 1. handles IDNA;
//
// 2. performs logging;
//
// 3. short-circuits IP addresses like getaddrinfo does (i.e.,
// resolving "1.1.1.1" yields []string{"1.1.1.1"};
//
// 4. wraps errors.
func WrapResolver(logger model.Logger, resolver model.Resolver) model.Resolver {
	return &resolverIDNA{
		Resolver: &resolverLogger{
			Resolver: &resolverShortCircuitIPAddr{
				Resolver: &resolverErrWrapper{
					Resolver: resolver,
				},
			},
			Logger: model.ValidLoggerOrDefault(logger),
		},
	}
}

// ServiceName returns the name we query for SRV records. Like
// net.Resolver.LookupSRV, when both service and protocol are empty
// we query domain directly.
func ServiceName(service, protocol, domain string) string {
	if service == "" && protocol == "" {
		return domain
	}
	return "_" + service + "._" + protocol + "." + domain
}

// resolverSystem is the system resolver.
type resolverSystem struct {
	testableTimeout    time.Duration
	testableLookupHost func(ctx context.Context, domain string) ([]string, error)
	testableLookupSRV  func(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
}

var _ model.Resolver = &resolverSystem{}

func (r *resolverSystem) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	// Force a shorter timeout on the system resolver: we have
	// seen cases in which its own timeout becomes too large.
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	return r.lookupHost()(ctx, hostname)
}

func (r *resolverSystem) LookupService(
	ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	// Note: the standard library already sorts the records as RFC 2782 says.
	_, records, err := r.lookupSRV()(ctx, service, protocol, domain)
	if err != nil {
		return nil, err
	}
	if len(records) == 1 && records[0].Target == "." {
		return nil, ErrServiceNotAvailable
	}
	targets := make([]*model.Target, 0, len(records))
	for _, record := range records {
		targets = append(targets, &model.Target{
			Hostname: strings.TrimSuffix(record.Target, "."),
			Port:     record.Port,
			Priority: record.Priority,
			Weight:   record.Weight,
		})
	}
	if len(targets) <= 0 {
		return nil, ErrOODNSNoAnswer
	}
	return targets, nil
}

func (r *resolverSystem) timeout() time.Duration {
	if r.testableTimeout > 0 {
		return r.testableTimeout
	}
	return 15 * time.Second
}

func (r *resolverSystem) lookupHost() func(ctx context.Context, domain string) ([]string, error) {
	if r.testableLookupHost != nil {
		return r.testableLookupHost
	}
	return net.DefaultResolver.LookupHost
}

func (r *resolverSystem) lookupSRV() func(ctx context.Context, service, proto, name string) (string, []*net.SRV, error) {
	if r.testableLookupSRV != nil {
		return r.testableLookupSRV
	}
	return net.DefaultResolver.LookupSRV
}

func (r *resolverSystem) Network() string {
	return "system"
}

func (r *resolverSystem) Address() string {
	return ""
}

func (r *resolverSystem) CloseIdleConnections() {
	// nothing to do
}

// resolverLogger is a resolver that emits events
type resolverLogger struct {
	model.Resolver
	Logger model.Logger
}

var _ model.Resolver = &resolverLogger{}

func (r *resolverLogger) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	prefix := fmt.Sprintf("resolve[A,AAAA] %s with %s (%s)", hostname, r.Network(), r.Address())
	r.Logger.Debugf("%s...", prefix)
	start := time.Now()
	addrs, err := r.Resolver.LookupHost(ctx, hostname)
	elapsed := time.Since(start)
	if err != nil {
		r.Logger.Debugf("%s... %s in %s", prefix, err, elapsed)
		return nil, err
	}
	r.Logger.Debugf("%s... %+v in %s", prefix, addrs, elapsed)
	return addrs, nil
}

func (r *resolverLogger) LookupService(
	ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	prefix := fmt.Sprintf("resolve[SRV] %s with %s (%s)",
		ServiceName(service, protocol, domain), r.Network(), r.Address())
	r.Logger.Debugf("%s...", prefix)
	start := time.Now()
	targets, err := r.Resolver.LookupService(ctx, service, protocol, domain)
	elapsed := time.Since(start)
	if err != nil {
		r.Logger.Debugf("%s... %s in %s", prefix, err, elapsed)
		return nil, err
	}
	r.Logger.Debugf("%s... %+v in %s", prefix, targets, elapsed)
	return targets, nil
}

// resolverIDNA supports resolving Internationalized Domain Names.
//
// See RFC3492 for more information.
type resolverIDNA struct {
	model.Resolver
}

func (r *resolverIDNA) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	if net.ParseIP(hostname) != nil {
		return r.Resolver.LookupHost(ctx, hostname) // IPv6 literals are not valid labels
	}
	host, err := idnax.ToASCII(hostname)
	if err != nil {
		return nil, err
	}
	return r.Resolver.LookupHost(ctx, host)
}

func (r *resolverIDNA) LookupService(
	ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	ascii, err := idnax.ToASCII(domain)
	if err != nil {
		return nil, err
	}
	return r.Resolver.LookupService(ctx, service, protocol, ascii)
}

// resolverShortCircuitIPAddr recognizes when the input hostname is an
// IP address and returns it immediately to the caller.
type resolverShortCircuitIPAddr struct {
	model.Resolver
}

func (r *resolverShortCircuitIPAddr) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	if net.ParseIP(hostname) != nil {
		return []string{hostname}, nil
	}
	return r.Resolver.LookupHost(ctx, hostname)
}

// ErrNoResolver indicates you are using a dialer without a resolver.
var ErrNoResolver = errors.New("no configured resolver")

// NullResolver is a resolver that is not capable of resolving
// anything and always returns ErrNoResolver.
type NullResolver struct{}

var _ model.Resolver = &NullResolver{}

func (r *NullResolver) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	return nil, ErrNoResolver
}

func (r *NullResolver) LookupService(
	ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	return nil, ErrNoResolver
}

func (r *NullResolver) Network() string {
	return "null"
}

func (r *NullResolver) Address() string {
	return ""
}

func (r *NullResolver) CloseIdleConnections() {
	// nothing to do
}

// resolverErrWrapper is a Resolver that knows about wrapping errors.
type resolverErrWrapper struct {
	model.Resolver
}

var _ model.Resolver = &resolverErrWrapper{}

func (r *resolverErrWrapper) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	addrs, err := r.Resolver.LookupHost(ctx, hostname)
	if err != nil {
		return nil, NewErrWrapper(ClassifyResolverError, ResolveOperation, err)
	}
	return addrs, nil
}

func (r *resolverErrWrapper) LookupService(
	ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	targets, err := r.Resolver.LookupService(ctx, service, protocol, domain)
	if err != nil {
		return nil, NewErrWrapper(ClassifyResolverError, ServiceLookupOperation, err)
	}
	return targets, nil
}
