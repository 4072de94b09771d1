package netxlite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ClassifyGenericError maps an error to a failure string. This classifier
// is the most generic one and the more specific classifiers fall back to it.
//
// If the input error is an *ErrWrapper we don't perform the classification
// again and we return its Failure. If we cannot map the error, we return a
// string like "unknown_failure: XXX".
func ClassifyGenericError(err error) string {
	var errwrapper *ErrWrapper
	if errors.As(err, &errwrapper) {
		return errwrapper.Error() // we've already wrapped it
	}
	if failure := classifySyscallError(err); failure != "" {
		return failure
	}
	if errors.Is(err, context.Canceled) {
		return FailureInterrupted
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureGenericTimeoutError
	}
	if failure := classifyWithStringSuffix(err); failure != "" {
		return failure
	}
	return fmt.Sprintf("unknown_failure: %s", err.Error())
}

func classifySyscallError(err error) string {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return FailureConnectionRefused
	case errors.Is(err, syscall.ECONNRESET):
		return FailureConnectionReset
	case errors.Is(err, syscall.EHOSTUNREACH):
		return FailureHostUnreachable
	case errors.Is(err, syscall.ENETUNREACH):
		return FailureNetworkUnreachable
	default:
		return ""
	}
}

// classifyWithStringSuffix returns an empty string if it cannot classify err.
func classifyWithStringSuffix(err error) string {
	s := err.Error()
	switch {
	case strings.HasSuffix(s, "operation was canceled"):
		return FailureInterrupted
	case strings.HasSuffix(s, "EOF"):
		return FailureEOFError
	case strings.HasSuffix(s, "context deadline exceeded"),
		strings.HasSuffix(s, "i/o timeout"):
		return FailureGenericTimeoutError
	case strings.HasSuffix(s, DNSNoSuchHostSuffix):
		return FailureDNSNXDOMAINError
	case strings.HasSuffix(s, DNSServerMisbehavingSuffix):
		return FailureDNSServerMisbehaving
	case strings.HasSuffix(s, DNSNoAnswerSuffix):
		return FailureDNSNoAnswer
	default:
		return ""
	}
}

// ClassifyResolverError maps DNS resolution errors to failure strings.
func ClassifyResolverError(err error) string {
	var errwrapper *ErrWrapper
	if errors.As(err, &errwrapper) {
		return errwrapper.Error() // we've already wrapped it
	}
	switch {
	case errors.Is(err, ErrDNSReplyWithWrongQueryID):
		return FailureDNSReplyWithWrongQueryID
	case errors.Is(err, ErrOODNSRefused):
		return FailureDNSRefusedError
	case errors.Is(err, ErrOODNSServfail):
		return FailureDNSServfailError
	case errors.Is(err, ErrServiceNotAvailable):
		return FailureDNSServiceNotAvailable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return FailureDNSNXDOMAINError
	}
	return ClassifyGenericError(err)
}
