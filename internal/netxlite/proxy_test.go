package netxlite

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProxyResolverEnvironment(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://10.0.0.1:3128")
	t.Setenv("HTTPS_PROXY", "http://10.0.0.2:3128")
	t.Setenv("ALL_PROXY", "socks5h://127.0.0.1:9050")
	t.Setenv("NO_PROXY", "internal.example.com")
	t.Setenv("REQUEST_METHOD", "")
	reso := NewProxyResolverEnvironment()

	cases := map[string]string{
		"http://www.example.com:80":           "http://10.0.0.1:3128",
		"https://www.example.com:443":         "http://10.0.0.2:3128",
		"xmpp-client://xmpp.example.com:5222": "socks5h://127.0.0.1:9050",
		"imaps://internal.example.com:993":    DirectProxyURI,
	}
	for uri, expect := range cases {
		t.Run(uri, func(t *testing.T) {
			proxies, err := reso.Lookup(context.Background(), uri)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{expect}, proxies); diff != "" {
				t.Fatal(diff)
			}
		})
	}

	t.Run("with an invalid URI", func(t *testing.T) {
		if _, err := reso.Lookup(context.Background(), "\t"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("with a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := reso.Lookup(ctx, "http://www.example.com"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestProxyResolverStatic(t *testing.T) {
	t.Run("without proxies", func(t *testing.T) {
		proxies, err := NewProxyResolverStatic().Lookup(context.Background(), "imaps://example.com:993")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{DirectProxyURI}, proxies); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with proxies", func(t *testing.T) {
		expect := []string{"socks5://127.0.0.1:9050", DirectProxyURI}
		reso := NewProxyResolverStatic(expect...)
		proxies, err := reso.Lookup(context.Background(), "imaps://example.com:993")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(expect, proxies); diff != "" {
			t.Fatal(diff)
		}
		proxies[0] = "mutated"
		again, _ := reso.Lookup(context.Background(), "imaps://example.com:993")
		if again[0] != expect[0] {
			t.Fatal("the caller should not be able to modify the resolver")
		}
	})
}
