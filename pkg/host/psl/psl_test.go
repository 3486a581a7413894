package psl

import "testing"

func TestParseDnsNameWithSubdomain(t *testing.T) {
	d, err := ParseDnsName("www.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if d.Root != "example.com" {
		t.Errorf("got root %q", d.Root)
	}
	if d.Suffix != "com" {
		t.Errorf("got suffix %q", d.Suffix)
	}
	if d.FullDomain == nil || *d.FullDomain != "www.example.com" {
		t.Errorf("got fulldomain %v", d.FullDomain)
	}
}

func TestParseDnsNameBareDomain(t *testing.T) {
	d, err := ParseDnsName("example.com")
	if err != nil {
		t.Fatal(err)
	}
	if d.Root != "example.com" {
		t.Errorf("got root %q", d.Root)
	}
	if d.FullDomain != nil {
		t.Error("expected no fulldomain when root equals the input name")
	}
}

func TestParseDnsNameMultiLabelSuffix(t *testing.T) {
	d, err := ParseDnsName("foo.co.uk")
	if err != nil {
		t.Fatal(err)
	}
	if d.Suffix != "co.uk" {
		t.Errorf("got suffix %q", d.Suffix)
	}
	if d.Root != "foo.co.uk" {
		t.Errorf("got root %q", d.Root)
	}
}
