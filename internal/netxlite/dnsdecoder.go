package netxlite

//
// Decode byte arrays to DNS messages
//

import (
	"errors"
	"strings"

	"github.com/miekg/dns"
	"github.com/ooni/netservice/internal/model"
)

// DNSDecoderMiekg uses github.com/miekg/dns to decode DNS replies.
type DNSDecoderMiekg struct{}

// ErrDNSReplyWithWrongQueryID indicates we have got a DNS reply with the wrong queryID.
var ErrDNSReplyWithWrongQueryID = errors.New(FailureDNSReplyWithWrongQueryID)

// DecodeReply decodes a raw DNS reply.
func (d *DNSDecoderMiekg) DecodeReply(data []byte) (*dns.Msg, error) {
	reply := new(dns.Msg)
	if err := reply.Unpack(data); err != nil {
		return nil, err
	}
	return reply, nil
}

func (d *DNSDecoderMiekg) parseReply(data []byte, queryID uint16) (*dns.Msg, error) {
	reply, err := d.DecodeReply(data)
	if err != nil {
		return nil, err
	}
	if reply.Id != queryID {
		return nil, ErrDNSReplyWithWrongQueryID
	}
	switch reply.Rcode {
	case dns.RcodeSuccess:
		return reply, nil
	case dns.RcodeNameError:
		return nil, ErrOODNSNoSuchHost
	case dns.RcodeRefused:
		return nil, ErrOODNSRefused
	case dns.RcodeServerFailure:
		return nil, ErrOODNSServfail
	default:
		return nil, ErrOODNSMisbehaving
	}
}

// DecodeLookupHost decodes the A or AAAA addresses inside a reply.
func (d *DNSDecoderMiekg) DecodeLookupHost(qtype uint16, data []byte, queryID uint16) ([]string, error) {
	reply, err := d.parseReply(data, queryID)
	if err != nil {
		return nil, err
	}
	var addrs []string
	for _, answer := range reply.Answer {
		switch qtype {
		case dns.TypeA:
			if rra, ok := answer.(*dns.A); ok {
				addrs = append(addrs, rra.A.String())
			}
		case dns.TypeAAAA:
			if rra, ok := answer.(*dns.AAAA); ok {
				addrs = append(addrs, rra.AAAA.String())
			}
		}
	}
	if len(addrs) <= 0 {
		return nil, ErrOODNSNoAnswer
	}
	return addrs, nil
}

// DecodeSRV decodes the SRV records inside a reply. The returned targets
// are in the order in which the server sent them: use SortSRV to obtain
// the order mandated by RFC 2782.
func (d *DNSDecoderMiekg) DecodeSRV(data []byte, queryID uint16) ([]*model.Target, error) {
	reply, err := d.parseReply(data, queryID)
	if err != nil {
		return nil, err
	}
	var out []*model.Target
	for _, answer := range reply.Answer {
		if rr, ok := answer.(*dns.SRV); ok {
			out = append(out, &model.Target{
				Hostname: strings.TrimSuffix(rr.Target, "."),
				Port:     rr.Port,
				Priority: rr.Priority,
				Weight:   rr.Weight,
			})
		}
	}
	if len(out) <= 0 {
		return nil, ErrOODNSNoAnswer
	}
	return out, nil
}
