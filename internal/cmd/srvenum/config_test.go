package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigFile(t *testing.T) {
	writeFile := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "srvenum.conf")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("with a valid file", func(t *testing.T) {
		path := writeFile(t, `{
			"Version": 1,
			// use tor
			"Proxies": ["socks5://127.0.0.1:9050",],
			"Resolver": "udp://8.8.8.8:53",
			"TimeoutSeconds": 10,
		}`)
		cf, err := loadConfigFile(path)
		if err != nil {
			t.Fatal(err)
		}
		expect := &configFile{
			Version:        1,
			Proxies:        []string{"socks5://127.0.0.1:9050"},
			Resolver:       "udp://8.8.8.8:53",
			TimeoutSeconds: 10,
		}
		if diff := cmp.Diff(expect, cf); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with the wrong version", func(t *testing.T) {
		path := writeFile(t, `{"Version": 0}`)
		cf, err := loadConfigFile(path)
		if !errors.Is(err, errConfigFileWrongVersion) {
			t.Fatal("unexpected error", err)
		}
		if cf != nil {
			t.Fatal("expected nil config")
		}
	})

	t.Run("with invalid JSON", func(t *testing.T) {
		path := writeFile(t, `{`)
		if _, err := loadConfigFile(path); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("with a nonexistent file", func(t *testing.T) {
		_, err := loadConfigFile(filepath.Join(t.TempDir(), "nonexistent.conf"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestConfigFileMerge(t *testing.T) {
	cf := &configFile{
		Version:        1,
		Protocol:       "udp",
		Scheme:         "xmpps",
		Proxies:        []string{"direct://"},
		ProxyAware:     true,
		Resolver:       "tcp://8.8.8.8:53",
		TimeoutSeconds: 5,
	}

	t.Run("without flags set on the command line", func(t *testing.T) {
		opts := &Options{Protocol: "tcp", Resolver: "system"}
		cf.merge(opts, func(string) bool { return false })
		expect := &Options{
			Protocol:   "udp",
			Scheme:     "xmpps",
			Proxies:    []string{"direct://"},
			ProxyAware: true,
			Resolver:   "tcp://8.8.8.8:53",
			Timeout:    5 * time.Second,
		}
		if diff := cmp.Diff(expect, opts); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with flags set on the command line", func(t *testing.T) {
		opts := &Options{Protocol: "tcp", Resolver: "system", Timeout: time.Second}
		cf.merge(opts, func(name string) bool { return name == "resolver" || name == "timeout" })
		expect := &Options{
			Protocol:   "udp",
			Scheme:     "xmpps",
			Proxies:    []string{"direct://"},
			ProxyAware: true,
			Resolver:   "system",
			Timeout:    time.Second,
		}
		if diff := cmp.Diff(expect, opts); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("using the root command", func(t *testing.T) {
		server := newTestDNSServer()
		defer server.Close()
		path := filepath.Join(t.TempDir(), "srvenum.conf")
		content := `{"Version": 1, "Resolver": "udp://` + server.Address() + `",}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		got, err := runRootCommand("--config", path, "xmpp-client", "example.org")
		if err != nil {
			t.Fatal(err)
		}
		expect := []string{"_xmpp-client._tcp.example.org 10.0.1.1:5223"}
		if diff := cmp.Diff(expect, got); diff != "" {
			t.Fatal(diff)
		}
	})
}
