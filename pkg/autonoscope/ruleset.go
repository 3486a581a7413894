package autonoscope

import (
	"net/netip"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/kpcyrd/sn0int/pkg/db"
)

type domainEntry struct {
	rule   *domainRule
	scoped bool
}

type ipEntry struct {
	rule   *ipRule
	scoped bool
}

type urlEntry struct {
	rule   *urlRule
	scoped bool
}

// RuleSet holds the three precision-sorted rule vectors and implements
// db.Scoper so the entity store can consult it on every Insert, exactly as
// DatabaseSock's RuleSet did in mod.rs.
type RuleSet struct {
	store   *db.Store
	domains []domainEntry
	ips     []ipEntry
	urls    []urlEntry
}

// New returns an empty RuleSet bound to store for persistence.
func New(store *db.Store) *RuleSet {
	return &RuleSet{store: store}
}

// Load reads every row of the autonoscope table and rebuilds the three
// sorted rule vectors (mod.rs's RuleSet::load).
func Load(store *db.Store) (*RuleSet, error) {
	rows, err := store.LoadAutonoscope()
	if err != nil {
		return nil, err
	}

	set := New(store)
	for _, row := range rows {
		ruleType, err := ParseRuleType(row.Object)
		if err != nil {
			return nil, err
		}
		if err := set.addToMemory(ruleType, row.Value, row.Scoped); err != nil {
			return nil, err
		}
	}
	set.sortAll()

	return set, nil
}

// AddRule inserts (or replaces, per mod.rs's delete-then-insert semantics)
// a rule and persists it.
func (s *RuleSet) AddRule(ruleType RuleType, value string, scoped bool) error {
	if err := s.DeleteRule(ruleType, value); err != nil {
		return err
	}
	if err := s.addToMemory(ruleType, value, scoped); err != nil {
		return err
	}
	s.sortAll()

	if s.store != nil {
		if err := s.store.InsertAutonoscope(string(ruleType), value, scoped); err != nil {
			return err
		}
	}
	return nil
}

func (s *RuleSet) addToMemory(ruleType RuleType, value string, scoped bool) error {
	switch ruleType {
	case RuleTypeDomain:
		rule, err := newDomainRule(value)
		if err != nil {
			return err
		}
		s.domains = append([]domainEntry{{rule, scoped}}, s.domains...)
	case RuleTypeIp:
		rule, err := newIpRule(value)
		if err != nil {
			return err
		}
		s.ips = append([]ipEntry{{rule, scoped}}, s.ips...)
	case RuleTypeUrl:
		rule, err := newUrlRule(value)
		if err != nil {
			return err
		}
		s.urls = append([]urlEntry{{rule, scoped}}, s.urls...)
	}
	return nil
}

// DeleteRule removes a rule by its exact literal value.
func (s *RuleSet) DeleteRule(ruleType RuleType, value string) error {
	switch ruleType {
	case RuleTypeDomain:
		out := s.domains[:0]
		for _, e := range s.domains {
			if e.rule.String() != value {
				out = append(out, e)
			}
		}
		s.domains = out
	case RuleTypeIp:
		out := s.ips[:0]
		for _, e := range s.ips {
			if e.rule.String() != value {
				out = append(out, e)
			}
		}
		s.ips = out
	case RuleTypeUrl:
		out := s.urls[:0]
		for _, e := range s.urls {
			if e.rule.String() != value {
				out = append(out, e)
			}
		}
		s.urls = out
	}

	if s.store != nil {
		return s.store.DeleteAutonoscope(string(ruleType), value)
	}
	return nil
}

func (s *RuleSet) sortAll() {
	sort.SliceStable(s.domains, func(i, j int) bool {
		return s.domains[i].rule.precision() > s.domains[j].rule.precision()
	})
	sort.SliceStable(s.ips, func(i, j int) bool {
		return s.ips[i].rule.precision() > s.ips[j].rule.precision()
	})
	sort.SliceStable(s.urls, func(i, j int) bool {
		return s.urls[i].rule.precision() > s.urls[j].rule.precision()
	})
}

// Rule is a display-friendly (object, value, scoped) triple for the
// `autonoscope list` CLI command.
type Rule struct {
	Object string
	Value  string
	Scoped bool
}

func (s *RuleSet) Rules() []Rule {
	var out []Rule
	for _, e := range s.domains {
		out = append(out, Rule{"domain", e.rule.String(), e.scoped})
	}
	for _, e := range s.ips {
		out = append(out, Rule{"ip", e.rule.String(), e.scoped})
	}
	for _, e := range s.urls {
		out = append(out, Rule{"url", e.rule.String(), e.scoped})
	}
	return out
}

// Matches implements db.Scoper. Precedence mirrors mod.rs's RuleSet::matches:
// domains and subdomains consult the domain rules; ips/ports/netblocks
// consult the ip rules; urls first check the domain rules against their
// host, then the url rules — falling back to the default (scoped=true)
// when nothing matches.
func (s *RuleSet) Matches(family db.Family, object map[string]interface{}) (bool, error) {
	switch family {
	case db.FamilyDomain, db.FamilySubdomain:
		value, _ := object["value"].(string)
		if scoped, ok := s.matchDomain(value); ok {
			return scoped, nil
		}
	case db.FamilyIpAddr:
		value, _ := object["value"].(string)
		if scoped, ok := s.matchIPAddr(value); ok {
			return scoped, nil
		}
	case db.FamilyPort:
		ipAddr, _ := object["_ipaddr"].(string) // populated by the caller alongside ip_addr_id
		if ipAddr != "" {
			if scoped, ok := s.matchIPAddr(ipAddr); ok {
				return scoped, nil
			}
		}
	case db.FamilyNetblock:
		value, _ := object["value"].(string)
		if scoped, ok := s.matchNetblock(value); ok {
			return scoped, nil
		}
	case db.FamilyUrl:
		value, _ := object["value"].(string)
		if u, err := url.Parse(value); err == nil && u.Hostname() != "" {
			if scoped, ok := s.matchDomain(u.Hostname()); ok {
				return scoped, nil
			}
		}
		if scoped, ok := s.matchURL(value); ok {
			return scoped, nil
		}
	}
	return true, nil
}

func (s *RuleSet) matchDomain(value string) (bool, bool) {
	for _, e := range s.domains {
		if e.rule.matchesDomain(value) {
			return e.scoped, true
		}
	}
	return false, false
}

func (s *RuleSet) matchIPAddr(value string) (bool, bool) {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return false, false
	}
	for _, e := range s.ips {
		if e.rule.matchesAddr(addr) {
			return e.scoped, true
		}
	}
	return false, false
}

func (s *RuleSet) matchNetblock(value string) (bool, bool) {
	prefix, err := netip.ParsePrefix(value)
	if err != nil {
		return false, false
	}
	for _, e := range s.ips {
		if e.rule.matchesNetblock(prefix) {
			return e.scoped, true
		}
	}
	return false, false
}

func (s *RuleSet) matchURL(value string) (bool, bool) {
	for _, e := range s.urls {
		if e.rule.matchesURL(value) {
			return e.scoped, true
		}
	}
	return false, false
}

// ParsePort splits a stored "ip:port/proto" Port value back into its host
// address, used by the supervisor when constructing the insert payload
// handed to Matches for FamilyPort (db_add populates "_ipaddr" from the
// already-resolved ip_addr row rather than re-deriving it here).
func ParsePort(value string) (ip string, port int, proto string, ok bool) {
	protoIdx := strings.LastIndex(value, "/")
	if protoIdx < 0 {
		return "", 0, "", false
	}
	proto = value[protoIdx+1:]
	addr := value[:protoIdx]

	portIdx := strings.LastIndex(addr, ":")
	if portIdx < 0 {
		return "", 0, "", false
	}
	ip = strings.Trim(addr[:portIdx], "[]")
	p, err := strconv.Atoi(addr[portIdx+1:])
	if err != nil {
		return "", 0, "", false
	}
	return ip, p, proto, true
}
