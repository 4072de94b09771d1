package main

//
// Core implementation
//

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netservice"
	"github.com/ooni/netservice/internal/netxlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/sync/errgroup"
)

// mainWithOptions enumerates the addresses of service for each domain and
// prints them to stdout, following the order of the domains. When one or more
// domains fail, we print what we have and return the first error.
func mainWithOptions(ctx context.Context, logger model.Logger, stdout io.Writer,
	opts *Options, service string, domains []string) error {
	reso, err := newResolver(logger, opts.Resolver)
	if err != nil {
		return err
	}
	defer reso.CloseIdleConnections()

	proxies := netxlite.NewProxyResolverEnvironment()
	if len(opts.Proxies) > 0 {
		proxies = netxlite.NewProxyResolverStatic(opts.Proxies...)
	}
	config := netservice.NewConfigWithProxyResolver(logger, reso, proxies)

	results := make([][]string, len(domains))
	group := &errgroup.Group{}
	if opts.Parallelism > 0 {
		group.SetLimit(opts.Parallelism)
	}
	for idx, domain := range domains {
		idx, domain := idx, domain
		group.Go(func() error {
			lines, err := enumerateDomain(ctx, config, opts, service, domain)
			results[idx] = lines
			if err != nil {
				logger.Warnf("srvenum: %s", err.Error())
			}
			return err
		})
	}
	err = group.Wait()

	for _, lines := range results {
		for _, line := range lines {
			fmt.Fprintln(stdout, line)
		}
	}
	if opts.Metrics {
		if err := printMetrics(stdout); err != nil {
			return err
		}
	}
	return err
}

// enumerateDomain returns a line for each address of service at domain.
func enumerateDomain(ctx context.Context, config *netservice.Config,
	opts *Options, service, domain string) ([]string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sl := netservice.NewServiceLocator(service, opts.Protocol, domain)
	sl.SetScheme(opts.Scheme)
	enumerator := sl.NewEnumerator(config, opts.ProxyAware || len(opts.Proxies) > 0)
	defer enumerator.Close()

	next := enumerator.Next
	if opts.Async {
		next = func(ctx context.Context) (net.Addr, error) {
			return nextAsync(ctx, enumerator)
		}
	}

	var lines []string
	for {
		addr, err := next(ctx)
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, fmt.Errorf("%s: %w", sl.String(), err)
		}
		lines = append(lines, formatAddress(sl, addr))
	}
}

// nextAsync uses the callback based API to obtain the next address.
func nextAsync(ctx context.Context, enumerator model.AddressEnumerator) (net.Addr, error) {
	ch := make(chan *model.AsyncResult, 1)
	enumerator.NextAsync(ctx, func(result *model.AsyncResult) {
		ch <- result
	})
	return enumerator.NextFinish(<-ch)
}

// formatAddress formats an address emitted while enumerating sl.
func formatAddress(sl *netservice.ServiceLocator, addr net.Addr) string {
	switch addr := addr.(type) {
	case *model.ProxyAddress:
		return fmt.Sprintf("%s %s %s %s", sl.String(), addr.String(), addr.ProxyProtocol, addr.Destination())
	default:
		return fmt.Sprintf("%s %s", sl.String(), addr.String())
	}
}

// printMetrics writes the enumeration metrics using the text format.
func printMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "netservice_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
