package hostaddr

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

// Config contains the dependencies shared by connectables.
type Config struct {
	// Resolver is the MANDATORY resolver used to resolve hostnames.
	Resolver model.Resolver

	// ProxyResolver is the OPTIONAL proxy resolver. If nil, we use
	// netxlite.NewProxyResolverEnvironment.
	ProxyResolver model.ProxyResolver

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

func (c *Config) proxyResolver() model.ProxyResolver {
	if c.ProxyResolver != nil {
		return c.ProxyResolver
	}
	return netxlite.NewProxyResolverEnvironment()
}

// ErrInvalidEndpoint indicates that we cannot build a connectable
// because the hostname, the port, or the scheme are not valid.
var ErrInvalidEndpoint = errors.New("hostaddr: invalid endpoint")

// Connectable is a [model.Connectable] for a host and port pair. You
// MUST use [New] to create a valid instance.
type Connectable struct {
	config        *Config
	hostname      string
	logger        model.Logger
	port          uint16
	proxyResolver model.ProxyResolver
	scheme        string
	uri           string
}

var _ model.Connectable = &Connectable{}

// New creates a new [*Connectable] for the given scheme, hostname, and port.
// The scheme only matters to the proxy resolver, which decides which
// proxies to use depending on the URI scheme://hostname:port.
func New(config *Config, scheme, hostname string, port uint16) (*Connectable, error) {
	if hostname == "" {
		return nil, fmt.Errorf("%w: empty hostname", ErrInvalidEndpoint)
	}
	if port == 0 {
		return nil, fmt.Errorf("%w: zero port", ErrInvalidEndpoint)
	}
	endpoint := net.JoinHostPort(hostname, strconv.Itoa(int(port)))
	uri := (&url.URL{Scheme: scheme, Host: endpoint}).String()
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if parsed.Scheme == "" || parsed.Host != endpoint {
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalidEndpoint, uri)
	}
	c := &Connectable{
		config:        config,
		hostname:      hostname,
		logger:        model.ValidLoggerOrDefault(config.Logger),
		port:          port,
		proxyResolver: config.proxyResolver(),
		scheme:        scheme,
		uri:           uri,
	}
	return c, nil
}

// Hostname returns the hostname.
func (c *Connectable) Hostname() string {
	return c.hostname
}

// Port returns the port.
func (c *Connectable) Port() uint16 {
	return c.port
}

// Scheme returns the scheme.
func (c *Connectable) Scheme() string {
	return c.scheme
}

// String implements model.Connectable.
func (c *Connectable) String() string {
	return c.uri
}

// Enumerate implements model.Connectable.
func (c *Connectable) Enumerate() model.AddressEnumerator {
	return newDirectEnumerator(c.config.Resolver, c.logger, c.hostname, c.port)
}

// ProxyEnumerate implements model.Connectable.
func (c *Connectable) ProxyEnumerate() model.AddressEnumerator {
	return &proxyEnumerator{c: c}
}
