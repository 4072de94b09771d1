// Package netservice resolves a network service, identified by service
// name, protocol, and domain, into the ordered sequence of socket addresses
// that a client should try when connecting to it.
//
// A [*ServiceLocator] names the service and caches the DNS SRV targets
// shared by all the enumerations built from it. An [*Enumerator] walks the
// targets in the order chosen by the resolver, obtains an address enumerator
// for each target, and yields the addresses one at a time, either blocking
// (Next) or by invoking a callback (NextAsync and NextFinish).
//
// Errors affecting a single target are deferred. The enumerator returns the
// first deferred error only if the targets are exhausted, to allow clients
// to bypass broken targets as long as one of them works.
package netservice
