package netservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"sync"
	"testing"

	"github.com/ooni/netservice/internal/mocks"
	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

// hostStep is what a fake host enumerator returns on each call.
type hostStep struct {
	addr string
	err  error
}

// newFakeEnumerator returns an enumerator yielding the given steps and then io.EOF.
func newFakeEnumerator(steps []hostStep, proxy bool) *mocks.AddressEnumerator {
	var idx int
	e := &mocks.AddressEnumerator{}
	e.MockNext = func(ctx context.Context) (net.Addr, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if idx >= len(steps) {
			return nil, io.EOF
		}
		step := steps[idx]
		idx++
		if step.err != nil {
			return nil, step.err
		}
		ap := netip.MustParseAddrPort(step.addr)
		if proxy {
			return &model.ProxyAddress{Address: ap, ProxyURI: "direct://", ProxyProtocol: "direct"}, nil
		}
		return &model.InetSocketAddress{AddrPort: ap}, nil
	}
	e.MockNextAsync = func(ctx context.Context, callback func(result *model.AsyncResult)) {
		go func() {
			addr, err := e.MockNext(ctx)
			callback(model.NewAsyncResult(e, addr, err))
		}()
	}
	e.MockNextFinish = func(result *model.AsyncResult) (net.Addr, error) {
		return result.Result.Get()
	}
	return e
}

// fakeWorld simulates the service resolver and the hosts.
type fakeWorld struct {
	// hosts maps a hostname to what its enumerator returns
	hosts map[string][]hostStep

	// lookupErrs contains the errors returned by the first lookups
	lookupErrs []error

	// targets is the result of a successful lookup
	targets []*model.Target

	// onLookup is an optional hook called before each lookup
	onLookup func(ctx context.Context, count int) error

	mu                  sync.Mutex
	enumerateCalls      int
	lookups             int
	proxyEnumerateCalls int
	uris                []string
}

func (w *fakeWorld) lookupService(ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	w.mu.Lock()
	w.lookups++
	count, onLookup := w.lookups, w.onLookup
	w.mu.Unlock()
	if onLookup != nil {
		if err := onLookup(ctx, count); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.lookupErrs) > 0 {
		err := w.lookupErrs[0]
		w.lookupErrs = w.lookupErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return w.targets, nil
}

func (w *fakeWorld) newConfig() *Config {
	return &Config{
		Resolver: &mocks.ServiceResolver{
			MockLookupService: w.lookupService,
			MockLookupServiceAsync: func(ctx context.Context, service, protocol, domain string,
				callback func(targets []*model.Target, err error)) {
				go func() {
					callback(w.lookupService(ctx, service, protocol, domain))
				}()
			},
		},
		NewConnectable: w.newConnectable,
	}
}

func (w *fakeWorld) newConnectable(scheme, hostname string, port uint16) (model.Connectable, error) {
	if port == 0 {
		return nil, errors.New("zero port")
	}
	uri := fmt.Sprintf("%s://%s:%d", scheme, hostname, port)
	w.mu.Lock()
	w.uris = append(w.uris, uri)
	steps := w.hosts[hostname]
	w.mu.Unlock()
	c := &mocks.Connectable{
		MockEnumerate: func() model.AddressEnumerator {
			w.mu.Lock()
			w.enumerateCalls++
			w.mu.Unlock()
			return newFakeEnumerator(steps, false)
		},
		MockProxyEnumerate: func() model.AddressEnumerator {
			w.mu.Lock()
			w.proxyEnumerateCalls++
			w.mu.Unlock()
			return newFakeEnumerator(steps, true)
		},
		MockString: func() string {
			return uri
		},
	}
	return c, nil
}

func (w *fakeWorld) lookupCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lookups
}

// nextFunc is either nextBlocking or nextAsync.
type nextFunc func(ctx context.Context, e *Enumerator) (net.Addr, error)

func nextBlocking(ctx context.Context, e *Enumerator) (net.Addr, error) {
	return e.Next(ctx)
}

func nextAsync(ctx context.Context, e *Enumerator) (net.Addr, error) {
	done := make(chan *model.AsyncResult, 1)
	e.NextAsync(ctx, func(result *model.AsyncResult) {
		done <- result
	})
	return e.NextFinish(<-done)
}

// modes allows running the same test in both modes.
var modes = []struct {
	name string
	next nextFunc
}{{
	name: "blocking",
	next: nextBlocking,
}, {
	name: "async",
	next: nextAsync,
}}

// describe returns a string describing the result of a call and whether
// this result terminates the sequence.
func describe(addr net.Addr, err error) (string, bool) {
	var ew *netxlite.ErrWrapper
	switch {
	case errors.Is(err, io.EOF):
		if addr != nil {
			return "EOF with non-nil address", true
		}
		return "EOF", true
	case errors.As(err, &ew):
		return fmt.Sprintf("error: %s %s", ew.Operation, ew.Failure), true
	case err != nil:
		return "error: " + err.Error(), true
	default:
		return addr.String(), false
	}
}

// drain calls next until the end of the sequence or an error.
func drain(ctx context.Context, e *Enumerator, next nextFunc) []string {
	var out []string
	for {
		desc, done := describe(next(ctx, e))
		out = append(out, desc)
		if done {
			return out
		}
	}
}

// expectPanic runs fx and fails the test unless it panics with message.
func expectPanic(t *testing.T, message string, fx func()) {
	t.Helper()
	var got any
	func() {
		defer func() {
			got = recover()
		}()
		fx()
	}()
	if got != message {
		t.Fatalf("expected panic %q, got %v", message, got)
	}
}
