package netservice

import (
	"github.com/ooni/netservice/internal/hostaddr"
	"github.com/ooni/netservice/internal/idnax"
	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

// Config contains the dependencies of an [*Enumerator].
type Config struct {
	// Resolver is the MANDATORY resolver we use to look up the service.
	Resolver model.ServiceResolver

	// NewConnectable is the MANDATORY factory we use to build the
	// connectable for each target. The scheme argument is the scheme
	// configured into the [*ServiceLocator] when we build the connectable.
	NewConnectable func(scheme, hostname string, port uint16) (model.Connectable, error)

	// NormalizeHostname is the OPTIONAL function converting target
	// hostnames to ASCII. If nil, we use idnax.ToASCII.
	NormalizeHostname func(hostname string) (string, error)

	// Logger is the OPTIONAL logger. If nil, we don't log.
	Logger model.Logger
}

// NewConfig creates a [*Config] that uses reso for looking up both services
// and hosts and honours the proxy settings in the environment.
func NewConfig(logger model.Logger, reso model.Resolver) *Config {
	return NewConfigWithProxyResolver(logger, reso, netxlite.NewProxyResolverEnvironment())
}

// NewConfigWithProxyResolver is like [NewConfig] but uses the given proxy
// resolver for proxy-aware enumeration.
func NewConfigWithProxyResolver(
	logger model.Logger, reso model.Resolver, proxies model.ProxyResolver) *Config {
	hc := &hostaddr.Config{
		Resolver:      reso,
		ProxyResolver: proxies,
		Logger:        logger,
	}
	return &Config{
		Resolver: netxlite.NewAsyncResolver(reso),
		NewConnectable: func(scheme, hostname string, port uint16) (model.Connectable, error) {
			c, err := hostaddr.New(hc, scheme, hostname, port)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Logger: logger,
	}
}

func (c *Config) normalizeHostname(hostname string) (string, error) {
	if c.NormalizeHostname != nil {
		return c.NormalizeHostname(hostname)
	}
	return idnax.ToASCII(hostname)
}
