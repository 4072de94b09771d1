package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

// errUnsupportedResolver indicates we don't know how to build a resolver.
var errUnsupportedResolver = errors.New("unsupported resolver")

// newResolver creates the resolver with the given name, which is either
// empty or "system" for the system resolver, or an URL like udp://8.8.8.8:53
// or tcp://8.8.8.8:53 for a DNS resolver using the given transport.
func newResolver(logger model.Logger, name string) (model.Resolver, error) {
	if name == "" || name == "system" {
		return netxlite.NewResolverStdlib(logger), nil
	}
	URL, err := url.Parse(name)
	if err != nil {
		return nil, err
	}
	if URL.Host == "" || URL.Path != "" {
		return nil, fmt.Errorf("%w: %s", errUnsupportedResolver, name)
	}
	address := URL.Host
	if URL.Port() == "" {
		address = net.JoinHostPort(URL.Hostname(), "53")
	}
	dialer := netxlite.NewDialerWithoutResolver(logger)
	switch URL.Scheme {
	case "udp":
		return netxlite.NewResolverUDP(logger, dialer, address), nil
	case "tcp":
		return netxlite.NewResolverTCP(logger, dialer, address), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedResolver, name)
	}
}
