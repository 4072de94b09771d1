package netxlite

//
// Failure strings and operations
//

import (
	"errors"
	"fmt"
)

// These are the failure strings we map errors to.
const (
	FailureConnectionRefused        = "connection_refused"
	FailureConnectionReset          = "connection_reset"
	FailureDNSNXDOMAINError         = "dns_nxdomain_error"
	FailureDNSNoAnswer              = "dns_no_answer"
	FailureDNSRefusedError          = "dns_refused_error"
	FailureDNSReplyWithWrongQueryID = "dns_reply_with_wrong_query_id"
	FailureDNSServerMisbehaving     = "dns_server_misbehaving"
	FailureDNSServfailError         = "dns_servfail_error"
	FailureDNSServiceNotAvailable   = "dns_service_not_available"
	FailureEOFError                 = "eof_error"
	FailureGenericTimeoutError      = "generic_timeout_error"
	FailureHostUnreachable          = "host_unreachable"
	FailureInterrupted              = "interrupted"
	FailureInvalidEndpoint          = "invalid_endpoint"
	FailureInvalidHostname          = "invalid_hostname"
	FailureNetworkUnreachable       = "network_unreachable"
	FailureUnsupportedProxy         = "unsupported_proxy"
)

// These are the operations that may fail.
const (
	// ResolveOperation is resolving a domain name to IP addresses.
	ResolveOperation = "resolve"

	// ServiceLookupOperation is resolving a service to SRV targets.
	ServiceLookupOperation = "srv_lookup"

	// ConnectOperation is connecting to an endpoint.
	ConnectOperation = "connect"

	// HostnameOperation is validating or normalizing a hostname.
	HostnameOperation = "hostname"

	// ProxyLookupOperation is figuring out which proxies to use.
	ProxyLookupOperation = "proxy_lookup"

	// EnumerateOperation is enumerating the addresses of a host.
	EnumerateOperation = "enumerate"

	// ReadOperation is reading from a socket.
	ReadOperation = "read"

	// WriteOperation is writing to a socket.
	WriteOperation = "write"

	// TopLevelOperation is an unspecified operation.
	TopLevelOperation = "top_level"
)

// majorOperations are the operations we keep when re-wrapping an error.
var majorOperations = map[string]bool{
	ResolveOperation:       true,
	ServiceLookupOperation: true,
	ConnectOperation:       true,
	HostnameOperation:      true,
	ProxyLookupOperation:   true,
}

// These are the suffixes of the errors returned by Go's resolver, which
// we mimic so that classification by suffix works with both.
const (
	DNSNoSuchHostSuffix        = "no such host"
	DNSServerMisbehavingSuffix = "server misbehaving"
	DNSNoAnswerSuffix          = "no answer"
)

var (
	// ErrOODNSNoSuchHost means NXDOMAIN.
	ErrOODNSNoSuchHost = fmt.Errorf("ooresolver: %s", DNSNoSuchHostSuffix)

	// ErrOODNSMisbehaving is the error for an unexpected rcode.
	ErrOODNSMisbehaving = fmt.Errorf("ooresolver: %s", DNSServerMisbehavingSuffix)

	// ErrOODNSNoAnswer means the reply contained no useful answer.
	ErrOODNSNoAnswer = fmt.Errorf("ooresolver: %s", DNSNoAnswerSuffix)

	// ErrOODNSRefused means the server refused the query.
	ErrOODNSRefused = errors.New("ooresolver: " + FailureDNSRefusedError)

	// ErrOODNSServfail means the server failed to answer.
	ErrOODNSServfail = errors.New("ooresolver: " + FailureDNSServfailError)

	// ErrServiceNotAvailable means the domain explicitly says the service
	// is not available, by publishing a lone SRV record whose target is ".".
	ErrServiceNotAvailable = errors.New("ooresolver: service not available")
)
