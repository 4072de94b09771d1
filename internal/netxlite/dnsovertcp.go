package netxlite

//
// DNS-over-TCP transport
//

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/ooni/netservice/internal/model"
)

// DNSOverTCPTransport is a DNS-over-TCP DNSTransport. We use TCP when the
// SRV reply is too large to fit into a UDP datagram.
type DNSOverTCPTransport struct {
	dialer  model.Dialer
	address string
}

// NewUnwrappedDNSOverTCPTransport creates a DNSOverTCPTransport instance.
func NewUnwrappedDNSOverTCPTransport(dialer model.Dialer, address string) *DNSOverTCPTransport {
	return &DNSOverTCPTransport{dialer: dialer, address: address}
}

// errQueryTooLarge indicates the query is too large for the transport.
var errQueryTooLarge = errors.New("oodns: query too large for this transport")

// dnsOverTCPTimeout is the overall I/O timeout.
const dnsOverTCPTimeout = 10 * time.Second

// RoundTrip sends a query and receives a reply.
func (t *DNSOverTCPTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	if len(query) > 1<<16-1 {
		return nil, errQueryTooLarge
	}
	conn, err := t.dialer.DialContext(ctx, "tcp", t.address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(dnsOverTCPTimeout)); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()
	// Write request
	buf := make([]byte, 2, 2+len(query))
	binary.BigEndian.PutUint16(buf, uint16(len(query)))
	buf = append(buf, query...)
	if _, err := conn.Write(buf); err != nil {
		return nil, t.maybeContextError(ctx, err)
	}
	// Read response
	header := make([]byte, 2)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, t.maybeContextError(ctx, err)
	}
	length := int(binary.BigEndian.Uint16(header))
	reply := make([]byte, length)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return nil, t.maybeContextError(ctx, err)
	}
	return reply, nil
}

func (t *DNSOverTCPTransport) maybeContextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// RequiresPadding returns false for TCP according to RFC8467.
func (t *DNSOverTCPTransport) RequiresPadding() bool {
	return false
}

// Network returns the transport network, i.e., "tcp".
func (t *DNSOverTCPTransport) Network() string {
	return "tcp"
}

// Address returns the upstream server address.
func (t *DNSOverTCPTransport) Address() string {
	return t.address
}

// CloseIdleConnections closes idle connections, if any.
func (t *DNSOverTCPTransport) CloseIdleConnections() {
	// nothing to do
}

var _ model.DNSTransport = &DNSOverTCPTransport{}
