package netxlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

func TestClassifyGenericError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect string
	}{{
		name:   "already wrapped",
		err:    &ErrWrapper{Failure: FailureDNSNoAnswer},
		expect: FailureDNSNoAnswer,
	}, {
		name:   "connection refused",
		err:    fmt.Errorf("dial: %w", syscall.ECONNREFUSED),
		expect: FailureConnectionRefused,
	}, {
		name:   "connection reset",
		err:    syscall.ECONNRESET,
		expect: FailureConnectionReset,
	}, {
		name:   "host unreachable",
		err:    syscall.EHOSTUNREACH,
		expect: FailureHostUnreachable,
	}, {
		name:   "network unreachable",
		err:    syscall.ENETUNREACH,
		expect: FailureNetworkUnreachable,
	}, {
		name:   "context canceled",
		err:    context.Canceled,
		expect: FailureInterrupted,
	}, {
		name:   "context deadline exceeded",
		err:    context.DeadlineExceeded,
		expect: FailureGenericTimeoutError,
	}, {
		name:   "operation was canceled",
		err:    errors.New("dial tcp: operation was canceled"),
		expect: FailureInterrupted,
	}, {
		name:   "EOF",
		err:    io.EOF,
		expect: FailureEOFError,
	}, {
		name:   "i/o timeout",
		err:    errors.New("read udp: i/o timeout"),
		expect: FailureGenericTimeoutError,
	}, {
		name:   "no such host",
		err:    ErrOODNSNoSuchHost,
		expect: FailureDNSNXDOMAINError,
	}, {
		name:   "server misbehaving",
		err:    ErrOODNSMisbehaving,
		expect: FailureDNSServerMisbehaving,
	}, {
		name:   "no answer",
		err:    ErrOODNSNoAnswer,
		expect: FailureDNSNoAnswer,
	}, {
		name:   "unknown",
		err:    errors.New("antani"),
		expect: "unknown_failure: antani",
	}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyGenericError(tc.err); got != tc.expect {
				t.Fatal("expected", tc.expect, "got", got)
			}
		})
	}
}

func TestClassifyResolverError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect string
	}{{
		name:   "already wrapped",
		err:    &ErrWrapper{Failure: FailureDNSRefusedError},
		expect: FailureDNSRefusedError,
	}, {
		name:   "wrong query ID",
		err:    ErrDNSReplyWithWrongQueryID,
		expect: FailureDNSReplyWithWrongQueryID,
	}, {
		name:   "refused",
		err:    ErrOODNSRefused,
		expect: FailureDNSRefusedError,
	}, {
		name:   "servfail",
		err:    ErrOODNSServfail,
		expect: FailureDNSServfailError,
	}, {
		name:   "service not available",
		err:    ErrServiceNotAvailable,
		expect: FailureDNSServiceNotAvailable,
	}, {
		name:   "stdlib not found",
		err:    &net.DNSError{Err: "no such host", Name: "example.com", IsNotFound: true},
		expect: FailureDNSNXDOMAINError,
	}, {
		name:   "fallback",
		err:    context.Canceled,
		expect: FailureInterrupted,
	}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyResolverError(tc.err); got != tc.expect {
				t.Fatal("expected", tc.expect, "got", got)
			}
		})
	}
}
