// Package dnsres implements the `dns(name, record_type)` host function
// (SPEC_FULL.md §4.5.5): resolution through an explicit, configured
// resolver rather than the system's /etc/resolv.conf, since a sandboxed
// child may not be able to read it. Grounded on
// _examples/original_source/src/runtime/dns.rs.
package dnsres

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// Config mirrors the resolver configuration serialized into the Start
// IPC message (SPEC_FULL.md §4.2) so the child never touches
// /etc/resolv.conf directly.
type Config struct {
	Nameservers []string
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{Nameservers: []string{"1.1.1.1:53", "8.8.8.8:53"}, Timeout: 5 * time.Second}
}

// Resolver answers one query at a time against the configured nameserver
// list, trying each in order until one answers (Resolver.from_system's Go
// equivalent, generalized to the explicit nameserver list the Start
// message carries instead of the OS default resolver).
type Resolver struct {
	cfg Config
}

func New(cfg Config) *Resolver {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Resolver{cfg: cfg}
}

// Answer is one resolved record, shaped for direct JSON re-encoding back
// to the script (the `{"success":[{"A": ...}, ...]}`-style envelope
// dns.rs's test fixtures expect).
type Answer struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Resolve looks up name for the given record type ("A", "AAAA", "TXT",
// "CNAME", "MX", "NS", "PTR", "SOA").
func (r *Resolver) Resolve(ctx context.Context, name, recordType string) ([]Answer, error) {
	qtype, ok := dns.StringToType[recordType]
	if !ok {
		return nil, fmt.Errorf("unknown DNS record type: %q", recordType)
	}

	if len(r.cfg.Nameservers) == 0 {
		return nil, fmt.Errorf("no nameservers configured")
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: r.cfg.Timeout}

	var lastErr error
	for _, ns := range r.cfg.Nameservers {
		reply, _, err := client.ExchangeContext(ctx, msg, ns)
		if err != nil {
			lastErr = err
			continue
		}
		return answersFrom(reply, recordType), nil
	}
	return nil, fmt.Errorf("all nameservers failed, last error: %w", lastErr)
}

func answersFrom(reply *dns.Msg, recordType string) []Answer {
	answers := make([]Answer, 0, len(reply.Answer))
	for _, rr := range reply.Answer {
		answers = append(answers, Answer{Type: recordType, Value: rrValue(rr)})
	}
	return answers
}

func rrValue(rr dns.RR) string {
	switch v := rr.(type) {
	case *dns.A:
		return v.A.String()
	case *dns.AAAA:
		return v.AAAA.String()
	case *dns.CNAME:
		return v.Target
	case *dns.TXT:
		if len(v.Txt) > 0 {
			return v.Txt[0]
		}
		return ""
	case *dns.MX:
		return v.Mx
	case *dns.NS:
		return v.Ns
	case *dns.PTR:
		return v.Ptr
	default:
		return rr.String()
	}
}
