// Package autonoscope implements the autonoscope rule engine (component C3,
// SPEC_FULL.md §3.2/§4.7): three typed rule vectors — domain, ip and url —
// each sorted by descending precision so the longest, most specific match
// wins. It is grounded directly on
// _examples/original_source/src/autonoscope/{mod,domain,ip,url}.rs,
// translated from Diesel models and trait objects into a small closed
// RuleType union plus a db.Scoper implementation the entity store consults
// on every Insert.
package autonoscope

import (
	"fmt"
	"net/netip"
	"strings"
)

// RuleType names one of the three rule vectors.
type RuleType string

const (
	RuleTypeDomain RuleType = "domain"
	RuleTypeIp     RuleType = "ip"
	RuleTypeUrl    RuleType = "url"
)

func ParseRuleType(s string) (RuleType, error) {
	switch RuleType(s) {
	case RuleTypeDomain, RuleTypeIp, RuleTypeUrl:
		return RuleType(s), nil
	default:
		return "", fmt.Errorf("unknown autonoscope rule type %q", s)
	}
}

func ListRuleTypes() []string {
	return []string{string(RuleTypeDomain), string(RuleTypeIp), string(RuleTypeUrl)}
}

// domainRule matches a domain/subdomain/url-host against a reversed
// dot-label suffix, e.g. "example.com" matches "www.example.com". The rule
// "." (zero labels) matches everything.
type domainRule struct {
	value     string
	fragments []string // reversed labels, e.g. "example.com" -> ["com", "example"]
}

func newDomainRule(value string) (*domainRule, error) {
	var fragments []string
	for _, f := range strings.Split(value, ".") {
		if f != "" {
			fragments = append(fragments, f)
		}
	}
	reverse(fragments)
	return &domainRule{value: value, fragments: fragments}, nil
}

func (r *domainRule) String() string { return r.value }

func (r *domainRule) precision() int { return len(r.fragments) }

func (r *domainRule) matchesDomain(domain string) bool {
	var frags []string
	for _, f := range strings.Split(domain, ".") {
		if f != "" {
			frags = append(frags, f)
		}
	}
	if len(r.fragments) > len(frags) {
		return false
	}
	for i, rf := range r.fragments {
		df := frags[len(frags)-1-i]
		if rf != df {
			return false
		}
	}
	return true
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ipRule matches an address or netblock against a CIDR network, grounded on
// ip.rs's IpRule (backed there by the ipnetwork crate). No library in the
// retrieved pack offers CIDR containment helpers, so this uses the standard
// library's net/netip — stdlib is justified here per DESIGN.md.
type ipRule struct {
	prefix netip.Prefix
}

func newIpRule(value string) (*ipRule, error) {
	prefix, err := netip.ParsePrefix(value)
	if err != nil {
		return nil, fmt.Errorf("invalid ip rule %q: %w", value, err)
	}
	return &ipRule{prefix: prefix.Masked()}, nil
}

func (r *ipRule) String() string { return r.prefix.String() }

func (r *ipRule) precision() int { return r.prefix.Bits() }

func (r *ipRule) matchesAddr(addr netip.Addr) bool {
	return r.prefix.Contains(addr)
}

// matchesNetblock implements the "rule must be at least as broad as the
// candidate netblock" constraint from ip.rs's match_netblock_str: a rule
// only matches a netblock whose prefix length is >= the rule's own, i.e.
// the candidate is contained within (or equal to) the rule.
func (r *ipRule) matchesNetblock(candidate netip.Prefix) bool {
	if r.prefix.Bits() > candidate.Bits() {
		return false
	}
	return r.prefix.Contains(candidate.Addr())
}

// urlRule matches strict origin equality (scheme+host+port) plus a
// path-segment prefix, grounded on url.rs's UrlRule.
type urlRule struct {
	raw      string
	scheme   string
	host     string
	segments []string
}

func newUrlRule(value string) (*urlRule, error) {
	scheme, host, path, err := splitOrigin(value)
	if err != nil {
		return nil, err
	}
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return &urlRule{raw: value, scheme: scheme, host: host, segments: segments}, nil
}

func (r *urlRule) String() string { return r.raw }

func (r *urlRule) precision() int { return len(r.segments) }

func (r *urlRule) matchesURL(value string) bool {
	scheme, host, path, err := splitOrigin(value)
	if err != nil {
		return false
	}
	if scheme != r.scheme || host != r.host {
		return false
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(r.segments) > len(segments) {
		return false
	}
	for i, rs := range r.segments {
		if rs != segments[i] {
			return false
		}
	}
	return true
}

// splitOrigin parses value with net/url semantics; see urlsplit.go.
