package testingx

import (
	"net"
	"sync"

	"github.com/miekg/dns"
	"github.com/ooni/netservice/internal/runtimex"
)

// DNSOverTCPListener is a fake DNS-over-TCP server built on [dns.Server]. The
// zero value is invalid; please, use [MustNewDNSOverTCPListener] to construct.
type DNSOverTCPListener struct {
	closeOnce sync.Once
	listener  net.Listener
	server    *dns.Server
	wg        sync.WaitGroup
}

// MustNewDNSOverTCPListener listens on addr (e.g., 127.0.0.1:0) and answers
// each query using handler. This function panics on failure.
func MustNewDNSOverTCPListener(addr string, handler dns.Handler) *DNSOverTCPListener {
	listener := runtimex.Try1(net.Listen("tcp", addr))
	started := make(chan struct{})
	dl := &DNSOverTCPListener{
		listener: listener,
		server: &dns.Server{
			Listener:          listener,
			Handler:           handler,
			NotifyStartedFunc: func() { close(started) },
		},
	}
	dl.wg.Add(1)
	go func() {
		defer dl.wg.Done()
		_ = dl.server.ActivateAndServe()
	}()
	<-started
	return dl
}

// Address returns the address we're listening on.
func (dl *DNSOverTCPListener) Address() string {
	return dl.listener.Addr().String()
}

// Close implements io.Closer.
func (dl *DNSOverTCPListener) Close() (err error) {
	dl.closeOnce.Do(func() {
		err = dl.server.Shutdown()
		dl.wg.Wait()
	})
	return err
}
