// Package netxlite contains the network extensions we use to resolve
// services and hosts. It contains:
//
// - resolvers that perform SRV and A/AAAA lookups using either the
// standard library or raw DNS transports (UDP and TCP) whose messages we
// encode and decode with github.com/miekg/dns;
//
// - a dialer used by the raw DNS transports;
//
// - proxy resolvers telling which proxies to use to reach an URI;
//
// - error wrapping, which maps Go errors to stable failure strings.
//
// Every constructor named NewXXX returns an object that is already
// wrapped with logging and error wrapping. The NewUnwrappedXXX
// constructors, instead, return raw objects.
package netxlite
