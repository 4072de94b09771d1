package netxlite

//
// Proxy resolvers
//

import (
	"context"
	"net/url"
	"os"

	"github.com/ooni/netservice/internal/model"
	"golang.org/x/net/http/httpproxy"
)

// DirectProxyURI is the proxy URI meaning "do not use any proxy".
const DirectProxyURI = "direct://"

// NewProxyResolverEnvironment returns a [model.ProxyResolver] that reads the
// proxy configuration from the environment when it is created. We honour
// HTTP_PROXY for http URIs, HTTPS_PROXY for https URIs, ALL_PROXY for any
// other URI, and NO_PROXY for all of them. The lowercase variants work too.
func NewProxyResolverEnvironment() model.ProxyResolver {
	cfg := httpproxy.FromEnvironment()
	allProxy := getEnvAny("ALL_PROXY", "all_proxy")
	return &proxyResolverEnvironment{
		httpFunc: cfg.ProxyFunc(),
		allFunc: (&httpproxy.Config{
			HTTPProxy: allProxy,
			NoProxy:   cfg.NoProxy,
		}).ProxyFunc(),
	}
}

func getEnvAny(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

type proxyResolverEnvironment struct {
	httpFunc func(*url.URL) (*url.URL, error)
	allFunc  func(*url.URL) (*url.URL, error)
}

var _ model.ProxyResolver = &proxyResolverEnvironment{}

// Lookup implements model.ProxyResolver.
func (r *proxyResolverEnvironment) Lookup(ctx context.Context, uri string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	var proxy *url.URL
	switch target.Scheme {
	case "http", "https":
		proxy, err = r.httpFunc(target)
	default:
		// httpproxy only knows about http and https, so we pretend the
		// URI is an http one to apply ALL_PROXY and NO_PROXY to it
		clone := *target
		clone.Scheme = "http"
		proxy, err = r.allFunc(&clone)
	}
	if err != nil {
		return nil, err
	}
	if proxy == nil {
		return []string{DirectProxyURI}, nil
	}
	return []string{proxy.String()}, nil
}

// NewProxyResolverStatic returns a [model.ProxyResolver] that always
// returns the given proxy URIs, or DirectProxyURI when none is given.
func NewProxyResolverStatic(uris ...string) model.ProxyResolver {
	if len(uris) <= 0 {
		uris = []string{DirectProxyURI}
	}
	return &proxyResolverStatic{uris: uris}
}

type proxyResolverStatic struct {
	uris []string
}

// Lookup implements model.ProxyResolver.
func (r *proxyResolverStatic) Lookup(ctx context.Context, uri string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string{}, r.uris...), nil
}
