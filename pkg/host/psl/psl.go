// Package psl implements public-suffix-aware domain splitting
// (SPEC_FULL.md §4.5.5's "parser yields DnsName{fulldomain, root,
// suffix}"). Grounded on
// _examples/original_source/sn0int-std/src/psl.rs's Psl::parse_dns_name.
package psl

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DnsName is a domain split into its registrable root, its public suffix,
// and (if the name has one) the full original subdomain form.
type DnsName struct {
	FullDomain *string
	Root       string
	Suffix     string
}

// ParseDnsName splits name the way psl.rs's parse_dns_name does: suffix is
// the public suffix, root is the registrable eTLD+1 (or name itself if
// name already is a bare suffix/TLD — "this is technically a tld, but
// support eg. a.prod.fastly.net anyway"), and FullDomain is nil exactly
// when root == name.
func ParseDnsName(name string) (DnsName, error) {
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(name))
	if suffix == "" {
		return DnsName{}, fmt.Errorf("failed to detect suffix for %q", name)
	}
	_ = icann

	root := name
	if suffix != name {
		root = registrableDomain(name, suffix)
	}

	var fulldomain *string
	if root != name {
		n := name
		fulldomain = &n
	}

	return DnsName{FullDomain: fulldomain, Root: root, Suffix: suffix}, nil
}

// registrableDomain returns the one extra label to the left of suffix
// within name — the eTLD+1, i.e. psl.rs's List::domain().
func registrableDomain(name, suffix string) string {
	prefix := strings.TrimSuffix(name, "."+suffix)
	if prefix == name {
		return name
	}
	idx := strings.LastIndex(prefix, ".")
	label := prefix
	if idx >= 0 {
		label = prefix[idx+1:]
	}
	return label + "." + suffix
}
