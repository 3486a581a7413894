package worker

import (
	"testing"

	"github.com/kpcyrd/sn0int/pkg/engine"
)

const minimalModule = "-- Description: test module\n" +
	"-- Version: 0.1.0\n" +
	"-- License: MIT\n" +
	"\n"

func newTestScript(t *testing.T) *engine.Script {
	t.Helper()
	s, err := engine.Load(minimalModule)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	s.RegisterCore(func(string, string) {})
	return s
}

func TestMintIDIsUniqueAndSequential(t *testing.T) {
	w := &Worker{}
	a := w.mintID()
	b := w.mintID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if a != "1" || b != "2" {
		t.Errorf("got ids %q, %q, want 1, 2", a, b)
	}
}

func TestRegisterCryptoHashesBytes(t *testing.T) {
	w := &Worker{}
	s := newTestScript(t)
	w.registerCrypto(s)

	err := s.Run(`result = hexlify(sha2_256("abc"))`, engine.Nil())
	if err != nil {
		t.Fatal(err)
	}
	got := s.L.GetGlobal("result").String()
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRegisterParsePerformsURLJoinAndRegex(t *testing.T) {
	w := &Worker{}
	s := newTestScript(t)
	w.registerParse(s)

	err := s.Run(`
		joined = url_join("http://example.com/a/b", "../c")
		m = regex_find("(\\d+)-(\\d+)", "order 12-34 shipped")
		first = m[2]
	`, engine.Nil())
	if err != nil {
		t.Fatal(err)
	}
	if got := s.L.GetGlobal("joined").String(); got != "http://example.com/c" {
		t.Errorf("got joined %q", got)
	}
	if got := s.L.GetGlobal("first").String(); got != "12" {
		t.Errorf("got first group %q", got)
	}
}

func TestRegisterPSLSplitsDomain(t *testing.T) {
	w := &Worker{}
	s := newTestScript(t)
	w.registerPSL(s)

	err := s.Run(`
		local d = psl_domain_from_dns_name("www.example.co.uk")
		root = d.root
		suffix = d.suffix
	`, engine.Nil())
	if err != nil {
		t.Fatal(err)
	}
	if got := s.L.GetGlobal("root").String(); got != "example.co.uk" {
		t.Errorf("got root %q", got)
	}
	if got := s.L.GetGlobal("suffix").String(); got != "co.uk" {
		t.Errorf("got suffix %q", got)
	}
}
