package main

//
// Configuration file - a human-readable JSON document containing
// defaults that the command line flags may override.
//

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ooni/netservice/internal/hujsonx"
)

// configFileVersion is the current version of the configuration file.
const configFileVersion = 1

// errConfigFileWrongVersion means that the configuration file has the wrong version number.
var errConfigFileWrongVersion = errors.New("wrong config file version")

// configFile is the root of the configuration file.
type configFile struct {
	// Version is the MANDATORY version number.
	Version int

	// Protocol is the OPTIONAL transport protocol (e.g., "tcp").
	Protocol string

	// Scheme is the OPTIONAL scheme overriding the service name.
	Scheme string

	// Proxies contains OPTIONAL proxy URIs to use.
	Proxies []string

	// ProxyAware OPTIONALLY enables proxy-aware enumeration.
	ProxyAware bool

	// Resolver is the OPTIONAL resolver URL.
	Resolver string

	// TimeoutSeconds is the OPTIONAL timeout in seconds.
	TimeoutSeconds int64
}

// loadConfigFile reads and parses the configuration file at path.
func loadConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root configFile
	if err := hujsonx.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Version != configFileVersion {
		err := fmt.Errorf(
			"%s: %w: expected=%d got=%d",
			path,
			errConfigFileWrongVersion,
			configFileVersion,
			root.Version,
		)
		return nil, err
	}
	return &root, nil
}

// merge copies into opts the settings of the configuration file that the
// user did not override on the command line. The changed function tells
// whether the user explicitly set a given flag.
func (cf *configFile) merge(opts *Options, changed func(name string) bool) {
	if cf.Protocol != "" && !changed("protocol") {
		opts.Protocol = cf.Protocol
	}
	if cf.Scheme != "" && !changed("scheme") {
		opts.Scheme = cf.Scheme
	}
	if len(cf.Proxies) > 0 && !changed("proxy") {
		opts.Proxies = cf.Proxies
	}
	if cf.ProxyAware && !changed("proxy-aware") {
		opts.ProxyAware = true
	}
	if cf.Resolver != "" && !changed("resolver") {
		opts.Resolver = cf.Resolver
	}
	if cf.TimeoutSeconds > 0 && !changed("timeout") {
		opts.Timeout = time.Duration(cf.TimeoutSeconds) * time.Second
	}
}
