package netservice

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ooni/netservice/internal/mocks"
	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

func TestServiceLocator(t *testing.T) {
	t.Run("accessors", func(t *testing.T) {
		sl := NewServiceLocator("xmpp-client", "tcp", "example.com")
		if sl.Service() != "xmpp-client" || sl.Protocol() != "tcp" || sl.Domain() != "example.com" {
			t.Fatal("unexpected accessors")
		}
		if sl.String() != "_xmpp-client._tcp.example.com" {
			t.Fatal("unexpected string", sl.String())
		}
		if sl.Scheme() != "xmpp-client" {
			t.Fatal("the scheme should default to the service", sl.Scheme())
		}
	})

	t.Run("SetScheme and OnSchemeChange", func(t *testing.T) {
		sl := NewServiceLocator("xmpp-client", "tcp", "example.com")
		var changes []string
		sl.OnSchemeChange(func(scheme string) {
			changes = append(changes, scheme)
		})
		sl.SetScheme("xmpps")
		sl.SetScheme("xmpps") // no change
		if sl.Scheme() != "xmpps" {
			t.Fatal("unexpected scheme", sl.Scheme())
		}
		sl.SetScheme("")
		if sl.Scheme() != "xmpp-client" {
			t.Fatal("unexpected scheme", sl.Scheme())
		}
		if diff := cmp.Diff([]string{"xmpps", "xmpp-client"}, changes); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("OnSchemeChange panics with a nil observer", func(t *testing.T) {
		expectPanic(t, "netservice: passed nil observer", func() {
			NewServiceLocator("xmpp-client", "tcp", "example.com").OnSchemeChange(nil)
		})
	})

	t.Run("changing the scheme does not invalidate the cache", func(t *testing.T) {
		w := &fakeWorld{
			targets: []*model.Target{newTarget("a.example.com", 5222)},
			hosts: map[string][]hostStep{
				"a.example.com": {{addr: "10.0.0.1:5222"}},
			},
		}
		sl := NewServiceLocator("xmpp-client", "tcp", "example.com")
		drain(context.Background(), sl.Enumerate(w.newConfig()), nextBlocking)
		sl.SetScheme("xmpps")
		drain(context.Background(), sl.Enumerate(w.newConfig()), nextAsync)
		if w.lookupCount() != 1 {
			t.Fatal("expected a single lookup", w.lookupCount())
		}
		expect := []string{"xmpp-client://a.example.com:5222", "xmpps://a.example.com:5222"}
		if diff := cmp.Diff(expect, w.uris); diff != "" {
			t.Fatal(diff)
		}
		if len(sl.cachedTargets()) != 1 {
			t.Fatal("expected cached targets")
		}
	})
}

func TestNewEnumeratorWithInvalidConfig(t *testing.T) {
	valid := (&fakeWorld{}).newConfig()
	type testcase struct {
		name   string
		config *Config
		expect string
	}
	cases := []testcase{{
		name:   "nil config",
		config: nil,
		expect: "netservice: passed nil config",
	}, {
		name:   "nil Resolver",
		config: &Config{NewConnectable: valid.NewConnectable},
		expect: "netservice: passed nil Resolver",
	}, {
		name:   "nil NewConnectable",
		config: &Config{Resolver: valid.Resolver},
		expect: "netservice: passed nil NewConnectable",
	}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectPanic(t, tc.expect, func() {
				NewServiceLocator("xmpp-client", "tcp", "example.com").Enumerate(tc.config)
			})
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("ALL_PROXY", "socks5://127.0.0.1:9050")
	t.Setenv("NO_PROXY", "")
	reso := &mocks.Resolver{
		MockLookupService: func(ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
			if service != "xmpp-client" || protocol != "tcp" || domain != "example.com" {
				t.Fatal("unexpected arguments", service, protocol, domain)
			}
			return []*model.Target{
				newTarget("xmpp1.example.com", 5222),
				newTarget("xmpp2.example.com", 5222),
			}, nil
		},
		MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
			switch domain {
			case "xmpp1.example.com":
				return []string{"10.0.0.1"}, nil
			case "xmpp2.example.com":
				return []string{"10.0.0.2", "2001:db8::2"}, nil
			default:
				t.Fatal("unexpected domain", domain)
				return nil, nil
			}
		},
	}
	config := NewConfig(model.DiscardLogger, reso)
	sl := NewServiceLocator("xmpp-client", "tcp", "example.com")

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			got := drain(context.Background(), sl.Enumerate(config), mode.next)
			expect := []string{"10.0.0.1:5222", "10.0.0.2:5222", "[2001:db8::2]:5222", "EOF"}
			if diff := cmp.Diff(expect, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}

	t.Run("with proxies", func(t *testing.T) {
		e := sl.ProxyEnumerate(config)
		addr, err := e.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		pa := addr.(*model.ProxyAddress)
		if pa.String() != "127.0.0.1:9050" || pa.ProxyProtocol != "socks5" {
			t.Fatal("unexpected proxy address", pa)
		}
		if pa.Destination() != "xmpp1.example.com:5222" || pa.DestinationProtocol != "xmpp-client" {
			t.Fatal("unexpected destination", pa.Destination(), pa.DestinationProtocol)
		}
	})
}

func TestNewConfigWithProxyResolver(t *testing.T) {
	reso := &mocks.Resolver{
		MockLookupService: func(ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
			return []*model.Target{newTarget("xmpp1.example.com", 5222)}, nil
		},
		MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
			switch domain {
			case "proxy.example.com":
				return []string{"10.0.0.53"}, nil
			case "xmpp1.example.com":
				return []string{"10.0.0.1"}, nil
			default:
				t.Fatal("unexpected domain", domain)
				return nil, nil
			}
		},
	}
	proxies := netxlite.NewProxyResolverStatic("http://proxy.example.com:3128", "direct://")
	config := NewConfigWithProxyResolver(model.DiscardLogger, reso, proxies)
	sl := NewServiceLocator("xmpp-client", "tcp", "example.com")

	var got []string
	e := sl.ProxyEnumerate(config)
	for {
		addr, err := e.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		pa := addr.(*model.ProxyAddress)
		got = append(got, pa.ProxyProtocol+" "+pa.String()+" "+pa.Destination())
	}
	expect := []string{
		"http 10.0.0.53:3128 xmpp1.example.com:5222",
		"direct 10.0.0.1:5222 xmpp1.example.com:5222",
	}
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestLookupWaiter(t *testing.T) {
	newWaiter := func() (*lookupWaiter, chan error) {
		results := make(chan error, 2)
		w := &lookupWaiter{callback: func(targets []*model.Target, err error) {
			results <- err
		}}
		return w, results
	}

	t.Run("delivering the result stops watching the context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w, results := newWaiter()
		w.watch(ctx)
		w.deliver([]*model.Target{newTarget("a.example.com", 5222)}, nil)
		if err := <-results; err != nil {
			t.Fatal(err)
		}
		if w.stop() {
			t.Fatal("the context watch should already be stopped")
		}
		cancel()
		if len(results) != 0 {
			t.Fatal("unexpected second delivery")
		}
	})

	t.Run("delivering before watching", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w, results := newWaiter()
		w.deliver(nil, nil)
		w.watch(ctx)
		<-results
		if w.stop != nil {
			t.Fatal("should not keep watching the context")
		}
	})

	t.Run("the context is done first", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w, results := newWaiter()
		w.watch(ctx)
		cancel()
		if err := <-results; !errors.Is(err, context.Canceled) {
			t.Fatal("unexpected err", err)
		}
		w.deliver(nil, nil)
		if len(results) != 0 {
			t.Fatal("unexpected second delivery")
		}
	})
}
