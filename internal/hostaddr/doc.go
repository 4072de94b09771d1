// Package hostaddr implements [model.Connectable] for a host and port
// pair. Its enumerators resolve the host lazily, on the first call to
// Next, and then yield the resolved addresses one at a time.
//
// The proxy-aware enumerator asks a [model.ProxyResolver] which proxies to
// use for the connectable URI and yields a [*model.ProxyAddress] for each
// address of each proxy, or for each address of the host itself when the
// resolver says we should connect directly.
package hostaddr
