package netxlite

//
// Serial DNS resolver implementation
//

import (
	"context"

	"github.com/miekg/dns"
	"github.com/ooni/netservice/internal/model"
)

// SerialResolver uses a transport and sends performs a LookupHost
// operation in a serial fashion (query for A first, wait for response,
// then query for AAAA, and wait for response), hence its name.
//
// You should probably use NewUnwrappedSerialResolver to create a new instance.
type SerialResolver struct {
	// Decoder is the MANDATORY DNS decoder.
	Decoder *DNSDecoderMiekg

	// Encoder is the MANDATORY DNS encoder.
	Encoder *DNSEncoderMiekg

	// Txp is the MANDATORY underlying DNS transport.
	Txp model.DNSTransport
}

var _ model.Resolver = &SerialResolver{}

// NewUnwrappedSerialResolver creates a new, and unwrapped, SerialResolver instance.
func NewUnwrappedSerialResolver(t model.DNSTransport) *SerialResolver {
	return &SerialResolver{
		Decoder: &DNSDecoderMiekg{},
		Encoder: &DNSEncoderMiekg{},
		Txp:     t,
	}
}

// Transport returns the transport being used.
func (r *SerialResolver) Transport() model.DNSTransport {
	return r.Txp
}

// Network returns the "network" of the underlying transport.
func (r *SerialResolver) Network() string {
	return r.Txp.Network()
}

// Address returns the "address" of the underlying transport.
func (r *SerialResolver) Address() string {
	return r.Txp.Address()
}

// CloseIdleConnections closes idle connections, if any.
func (r *SerialResolver) CloseIdleConnections() {
	r.Txp.CloseIdleConnections()
}

// LookupHost performs an A lookup followed by an AAAA lookup.
func (r *SerialResolver) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	var addrs []string
	addrsA, errA := r.lookupHost(ctx, hostname, dns.TypeA)
	if errA == nil {
		addrs = append(addrs, addrsA...)
	}
	addrsAAAA, errAAAA := r.lookupHost(ctx, hostname, dns.TypeAAAA)
	if errAAAA == nil {
		addrs = append(addrs, addrsAAAA...)
	}
	if len(addrs) < 1 {
		// Note: we choose to return the A error because we assume that
		// it's the more meaningful one: the AAAA error may just be telling
		// us that there is no AAAA record for the website.
		return nil, errA
	}
	return addrs, nil
}

func (r *SerialResolver) lookupHost(ctx context.Context, hostname string, qtype uint16) ([]string, error) {
	query, queryID, err := r.Encoder.Encode(hostname, qtype, r.Txp.RequiresPadding())
	if err != nil {
		return nil, err
	}
	reply, err := r.Txp.RoundTrip(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.Decoder.DecodeLookupHost(qtype, reply, queryID)
}

// LookupService queries for the SRV records of the given service and
// returns the targets sorted according to RFC 2782.
func (r *SerialResolver) LookupService(
	ctx context.Context, service, protocol, domain string) ([]*model.Target, error) {
	name := ServiceName(service, protocol, domain)
	query, queryID, err := r.Encoder.Encode(name, dns.TypeSRV, r.Txp.RequiresPadding())
	if err != nil {
		return nil, err
	}
	reply, err := r.Txp.RoundTrip(ctx, query)
	if err != nil {
		return nil, err
	}
	targets, err := r.Decoder.DecodeSRV(reply, queryID)
	if err != nil {
		return nil, err
	}
	if err := SortSRV(targets); err != nil {
		return nil, err
	}
	return targets, nil
}
