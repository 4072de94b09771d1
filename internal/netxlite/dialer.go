package netxlite

import (
	"context"
	"net"
	"time"

	"github.com/ooni/netservice/internal/model"
)

// NewDialerWithoutResolver creates a dialer that logs and wraps errors. This
// dialer only accepts IP addresses, which is what DNS transports need.
func NewDialerWithoutResolver(logger model.Logger) model.Dialer {
	return &dialerLogger{
		Dialer: &dialerErrWrapper{
			Dialer: &dialerSystem{},
		},
		Logger: model.ValidLoggerOrDefault(logger),
	}
}

// underlyingDialer is the net.Dialer we use by default.
var underlyingDialer = &net.Dialer{
	Timeout:   15 * time.Second,
	KeepAlive: 15 * time.Second,
}

// dialerSystem dials using Go stdlib.
type dialerSystem struct {
	testableDialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

var _ model.Dialer = &dialerSystem{}

// DialContext implements model.Dialer.DialContext.
func (d *dialerSystem) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if d.testableDialContext != nil {
		return d.testableDialContext(ctx, network, address)
	}
	return underlyingDialer.DialContext(ctx, network, address)
}

// CloseIdleConnections implements model.Dialer.CloseIdleConnections.
func (d *dialerSystem) CloseIdleConnections() {
	// nothing
}

// dialerLogger is a Dialer with logging.
type dialerLogger struct {
	Dialer model.Dialer
	Logger model.Logger
}

var _ model.Dialer = &dialerLogger{}

// DialContext implements model.Dialer.DialContext.
func (d *dialerLogger) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.Logger.Debugf("dial %s/%s...", address, network)
	start := time.Now()
	conn, err := d.Dialer.DialContext(ctx, network, address)
	elapsed := time.Since(start)
	if err != nil {
		d.Logger.Debugf("dial %s/%s... %s in %s", address, network, err, elapsed)
		return nil, err
	}
	d.Logger.Debugf("dial %s/%s... ok in %s", address, network, elapsed)
	return conn, nil
}

// CloseIdleConnections implements model.Dialer.CloseIdleConnections.
func (d *dialerLogger) CloseIdleConnections() {
	d.Dialer.CloseIdleConnections()
}

// dialerErrWrapper is a dialer that performs error wrapping.
type dialerErrWrapper struct {
	Dialer model.Dialer
}

var _ model.Dialer = &dialerErrWrapper{}

// DialContext implements model.Dialer.DialContext.
func (d *dialerErrWrapper) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := d.Dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, NewErrWrapper(ClassifyGenericError, ConnectOperation, err)
	}
	return conn, nil
}

// CloseIdleConnections implements model.Dialer.CloseIdleConnections.
func (d *dialerErrWrapper) CloseIdleConnections() {
	d.Dialer.CloseIdleConnections()
}
