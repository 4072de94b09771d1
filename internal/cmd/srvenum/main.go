// Command srvenum resolves network services using DNS SRV records and
// prints the socket addresses to connect to, in order.
//
// Usage:
//
//	srvenum [flags] SERVICE DOMAIN...
//
// For example, `srvenum xmpp-client jabber.org` prints the addresses
// of the XMPP servers for the jabber.org domain.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

// Options contains the options you can set from the CLI.
type Options struct {
	Async       bool
	ConfigFile  string
	Metrics     bool
	Parallelism int
	Protocol    string
	Proxies     []string
	ProxyAware  bool
	Resolver    string
	Scheme      string
	Timeout     time.Duration
	Verbose     bool
}

// main is the main function of srvenum.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCommand(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root command writing results to stdout.
func newRootCommand(stdout io.Writer) *cobra.Command {
	var globalOptions Options
	rootCmd := &cobra.Command{
		Use:          "srvenum SERVICE DOMAIN...",
		Short:        "srvenum enumerates the addresses of network services",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if globalOptions.ConfigFile != "" {
				cf, err := loadConfigFile(globalOptions.ConfigFile)
				if err != nil {
					return err
				}
				cf.merge(&globalOptions, cmd.Flags().Changed)
			}
			logger := newLogger(cmd.ErrOrStderr(), globalOptions.Verbose)
			return mainWithOptions(cmd.Context(), logger, stdout, &globalOptions, args[0], args[1:])
		},
	}
	flags := rootCmd.Flags()

	flags.BoolVar(
		&globalOptions.Async,
		"async",
		false,
		"use the callback based API rather than the blocking one",
	)

	flags.StringVar(
		&globalOptions.ConfigFile,
		"config",
		"",
		"read defaults from the given human-readable JSON file",
	)

	flags.BoolVar(
		&globalOptions.Metrics,
		"metrics",
		false,
		"print the enumeration metrics when done",
	)

	flags.IntVarP(
		&globalOptions.Parallelism,
		"parallelism",
		"j",
		4,
		"number of domains to enumerate in parallel",
	)

	flags.StringVarP(
		&globalOptions.Protocol,
		"protocol",
		"p",
		"tcp",
		"transport protocol of the service (e.g., tcp, udp)",
	)

	flags.StringSliceVar(
		&globalOptions.Proxies,
		"proxy",
		[]string{},
		"proxy URL to use, implies --proxy-aware (may be specified multiple times)",
	)

	flags.BoolVar(
		&globalOptions.ProxyAware,
		"proxy-aware",
		false,
		"enumerate proxy addresses using the proxy settings in the environment",
	)

	flags.StringVarP(
		&globalOptions.Resolver,
		"resolver",
		"r",
		"system",
		"resolver to use (one of: system, udp://HOST:PORT, tcp://HOST:PORT)",
	)

	flags.StringVar(
		&globalOptions.Scheme,
		"scheme",
		"",
		"scheme to use instead of the service name (e.g., https)",
	)

	flags.DurationVarP(
		&globalOptions.Timeout,
		"timeout",
		"t",
		0,
		"maximum time to wait for each domain (zero means infinite)",
	)

	flags.BoolVarP(
		&globalOptions.Verbose,
		"verbose",
		"v",
		false,
		"increase verbosity level",
	)

	return rootCmd
}
