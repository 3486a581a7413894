package dnsres

import (
	"net"
	"testing"

	"github.com/miekg/dns"
)

func TestRRValueA(t *testing.T) {
	rr := &dns.A{A: net.ParseIP("93.184.216.34")}
	if got := rrValue(rr); got != "93.184.216.34" {
		t.Errorf("got %q", got)
	}
}

func TestRRValueTXT(t *testing.T) {
	rr := &dns.TXT{Txt: []string{"v=spf1 -all"}}
	if got := rrValue(rr); got != "v=spf1 -all" {
		t.Errorf("got %q", got)
	}
}

func TestResolveUnknownRecordType(t *testing.T) {
	r := New(DefaultConfig())
	if _, err := r.Resolve(nil, "example.com", "BOGUS"); err == nil {
		t.Fatal("expected an error for an unknown record type")
	}
}

func TestResolveNoNameservers(t *testing.T) {
	r := New(Config{})
	if _, err := r.Resolve(nil, "example.com", "A"); err == nil {
		t.Fatal("expected an error when no nameservers are configured")
	}
}
