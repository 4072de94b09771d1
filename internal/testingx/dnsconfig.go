package testingx

//
// Fake DNS server configuration
//

import (
	"context"
	"net"
	"sync"

	"github.com/miekg/dns"
)

// DNSConfig tells a fake DNS server which records it knows. The zero
// value is invalid; please, use [NewDNSConfig] to construct.
type DNSConfig struct {
	mu      sync.Mutex
	records map[string]*dnsRecords
}

type dnsRecords struct {
	addrs []net.IP
	rcode int
	srv   []*dns.SRV
}

// NewDNSConfig creates a new empty [*DNSConfig].
func NewDNSConfig() *DNSConfig {
	return &DNSConfig{records: map[string]*dnsRecords{}}
}

func (c *DNSConfig) recordsLocked(name string) *dnsRecords {
	name = dns.CanonicalName(name)
	rec := c.records[name]
	if rec == nil {
		rec = &dnsRecords{}
		c.records[name] = rec
	}
	return rec
}

// AddRecord adds the given IPv4 or IPv6 addresses to domain.
func (c *DNSConfig) AddRecord(domain string, addrs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.recordsLocked(domain)
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil {
			rec.addrs = append(rec.addrs, ip)
		}
	}
}

// AddSRV adds a SRV record to name (e.g., "_xmpp-client._tcp.example.com").
func (c *DNSConfig) AddSRV(name, target string, port, priority, weight uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.recordsLocked(name)
	rec.srv = append(rec.srv, &dns.SRV{
		Target:   dns.Fqdn(target),
		Port:     port,
		Priority: priority,
		Weight:   weight,
	})
}

// SetRcode makes the server reply with rcode (e.g., dns.RcodeServerFailure)
// to any query for name.
func (c *DNSConfig) SetRcode(name string, rcode int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordsLocked(name).rcode = rcode
}

// lookup returns a copy of the records for name, if any.
func (c *DNSConfig) lookup(name string) (*dnsRecords, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, found := c.records[dns.CanonicalName(name)]
	if !found {
		return nil, false
	}
	out := &dnsRecords{
		addrs: append([]net.IP{}, rec.addrs...),
		rcode: rec.rcode,
		srv:   append([]*dns.SRV{}, rec.srv...),
	}
	return out, true
}

// DNSRoundTripper performs DNS round trips using raw messages.
type DNSRoundTripper interface {
	RoundTrip(ctx context.Context, rawQuery []byte) ([]byte, error)
}

// DNSHandler answers queries using a [*DNSConfig]. It implements both
// [DNSRoundTripper] and [dns.Handler].
type DNSHandler struct {
	// Config is the MANDATORY config.
	Config *DNSConfig
}

var (
	_ DNSRoundTripper = &DNSHandler{}
	_ dns.Handler     = &DNSHandler{}
)

// RoundTrip implements DNSRoundTripper.
func (h *DNSHandler) RoundTrip(ctx context.Context, rawQuery []byte) ([]byte, error) {
	query := &dns.Msg{}
	if err := query.Unpack(rawQuery); err != nil {
		return nil, err
	}
	return h.Reply(query).Pack()
}

// ServeDNS implements dns.Handler.
func (h *DNSHandler) ServeDNS(w dns.ResponseWriter, query *dns.Msg) {
	_ = w.WriteMsg(h.Reply(query))
}

// Reply computes the reply to query.
func (h *DNSHandler) Reply(query *dns.Msg) *dns.Msg {
	reply := &dns.Msg{}
	if query.Response || len(query.Question) != 1 {
		reply.SetRcode(query, dns.RcodeFormatError)
		return reply
	}
	question := query.Question[0]
	rec, found := h.Config.lookup(question.Name)
	if !found {
		reply.SetRcode(query, dns.RcodeNameError)
		return reply
	}
	if rec.rcode != dns.RcodeSuccess {
		reply.SetRcode(query, rec.rcode)
		return reply
	}
	reply.SetReply(query)
	header := func(qtype uint16) dns.RR_Header {
		return dns.RR_Header{
			Name:   question.Name,
			Rrtype: qtype,
			Class:  dns.ClassINET,
			Ttl:    3600,
		}
	}
	switch question.Qtype {
	case dns.TypeA:
		for _, ip := range rec.addrs {
			if ip4 := ip.To4(); ip4 != nil {
				reply.Answer = append(reply.Answer, &dns.A{Hdr: header(dns.TypeA), A: ip4})
			}
		}
	case dns.TypeAAAA:
		for _, ip := range rec.addrs {
			if ip.To4() == nil {
				reply.Answer = append(reply.Answer, &dns.AAAA{Hdr: header(dns.TypeAAAA), AAAA: ip})
			}
		}
	case dns.TypeSRV:
		for _, srv := range rec.srv {
			rr := *srv
			rr.Hdr = header(dns.TypeSRV)
			reply.Answer = append(reply.Answer, &rr)
		}
	}
	return reply
}
