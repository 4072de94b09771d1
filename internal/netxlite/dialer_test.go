package netxlite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"

	"github.com/ooni/netservice/internal/mocks"
)

func TestNewDialerWithoutResolver(t *testing.T) {
	var lines []string
	logger := &mocks.Logger{
		MockDebugf: func(format string, v ...interface{}) {
			lines = append(lines, fmt.Sprintf(format, v...))
		},
	}
	d := NewDialerWithoutResolver(logger)
	dl := d.(*dialerLogger)
	ew := dl.Dialer.(*dialerErrWrapper)
	sys := ew.Dialer.(*dialerSystem)
	sys.testableDialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
		return nil, syscall.ECONNREFUSED
	}

	conn, err := d.DialContext(context.Background(), "udp", "127.0.0.1:53")
	if conn != nil {
		t.Fatal("expected nil conn")
	}
	var wrapper *ErrWrapper
	if !errors.As(err, &wrapper) {
		t.Fatal("expected an ErrWrapper", err)
	}
	if wrapper.Failure != FailureConnectionRefused || wrapper.Operation != ConnectOperation {
		t.Fatal("unexpected wrapper", wrapper.Failure, wrapper.Operation)
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "dial 127.0.0.1:53/udp... connection_refused in ") {
		t.Fatal("unexpected lines", lines)
	}
	d.CloseIdleConnections() // does not crash
}

func TestDialerSystem(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	d := &dialerSystem{}
	conn, err := d.DialContext(context.Background(), "tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
}
