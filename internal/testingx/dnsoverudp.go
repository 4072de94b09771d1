package testingx

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/ooni/netservice/internal/runtimex"
)

// DNSOverUDPListener is a fake DNS-over-UDP server. The zero value is
// invalid; please, use [MustNewDNSOverUDPListener] to construct.
type DNSOverUDPListener struct {
	cancel    context.CancelFunc
	closeOnce sync.Once
	pconn     net.PacketConn
	rtx       DNSRoundTripper
	wg        sync.WaitGroup
}

// MustNewDNSOverUDPListener listens on addr (e.g., 127.0.0.1:0) and answers
// each query using rtx. This function panics on failure.
func MustNewDNSOverUDPListener(addr string, rtx DNSRoundTripper) *DNSOverUDPListener {
	pconn := runtimex.Try1(net.ListenPacket("udp", addr))
	ctx, cancel := context.WithCancel(context.Background())
	dl := &DNSOverUDPListener{
		cancel: cancel,
		pconn:  pconn,
		rtx:    rtx,
	}
	dl.wg.Add(1)
	go dl.mainloop(ctx)
	return dl
}

// Address returns the address we're listening on.
func (dl *DNSOverUDPListener) Address() string {
	return dl.pconn.LocalAddr().String()
}

// Close implements io.Closer.
func (dl *DNSOverUDPListener) Close() (err error) {
	dl.closeOnce.Do(func() {
		err = dl.pconn.Close()
		dl.cancel()
		dl.wg.Wait()
	})
	return err
}

func (dl *DNSOverUDPListener) mainloop(ctx context.Context) {
	defer dl.wg.Done()
	for {
		buffer := make([]byte, 1<<17)
		count, addr, err := dl.pconn.ReadFrom(buffer)
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			continue
		}
		rawResp, err := dl.rtx.RoundTrip(ctx, buffer[:count])
		if err != nil {
			continue
		}
		_, _ = dl.pconn.WriteTo(rawResp, addr)
	}
}
