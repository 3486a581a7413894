package autonoscope

import (
	"net/netip"
	"testing"
)

func TestDomainRuleRoot(t *testing.T) {
	rule, err := newDomainRule(".")
	if err != nil {
		t.Fatal(err)
	}
	if !rule.matchesDomain("example.com") {
		t.Error("expected match")
	}
	if rule.precision() != 0 {
		t.Errorf("precision = %d, want 0", rule.precision())
	}
}

func TestDomainRuleCom(t *testing.T) {
	rule, _ := newDomainRule("com")
	if !rule.matchesDomain("example.com") {
		t.Error("expected match")
	}
	if rule.precision() != 1 {
		t.Errorf("precision = %d, want 1", rule.precision())
	}
}

func TestDomainRuleEquals(t *testing.T) {
	rule, _ := newDomainRule("example.com")
	if !rule.matchesDomain("example.com") {
		t.Error("expected match")
	}
	if rule.precision() != 2 {
		t.Errorf("precision = %d, want 2", rule.precision())
	}
}

func TestDomainRuleMismatch(t *testing.T) {
	rule, _ := newDomainRule("foo.example.com")
	if rule.matchesDomain("example.com") {
		t.Error("expected mismatch")
	}
	if rule.precision() != 3 {
		t.Errorf("precision = %d, want 3", rule.precision())
	}
}

func TestIpRuleIPv4Root(t *testing.T) {
	rule, err := newIpRule("0.0.0.0/0")
	if err != nil {
		t.Fatal(err)
	}
	addr := netip.MustParseAddr("127.0.0.1")
	if !rule.matchesAddr(addr) {
		t.Error("expected match")
	}
	if rule.precision() != 0 {
		t.Errorf("precision = %d, want 0", rule.precision())
	}
}

func TestIpRuleIPv6Root(t *testing.T) {
	rule, _ := newIpRule("::/0")
	if !rule.matchesAddr(netip.MustParseAddr("::1")) {
		t.Error("expected match")
	}
}

func TestIpRuleIPv4Match(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	if !rule.matchesAddr(netip.MustParseAddr("192.0.2.1")) {
		t.Error("expected match")
	}
	if rule.precision() != 24 {
		t.Errorf("precision = %d, want 24", rule.precision())
	}
}

func TestIpRuleIPv4Mismatch(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	if rule.matchesAddr(netip.MustParseAddr("127.0.0.1")) {
		t.Error("expected mismatch")
	}
}

func TestIpRuleIPv6OnIPv4Mismatch(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	if rule.matchesAddr(netip.MustParseAddr("2001:db8::1")) {
		t.Error("expected mismatch across families")
	}
}

func TestIpRuleNetblockInner(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	candidate := netip.MustParsePrefix("192.0.2.128/25")
	if !rule.matchesNetblock(candidate) {
		t.Error("expected the narrower netblock to be contained")
	}
}

func TestIpRuleNetblockEqual(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	candidate := netip.MustParsePrefix("192.0.2.0/24")
	if !rule.matchesNetblock(candidate) {
		t.Error("expected equal netblocks to match")
	}
}

func TestIpRuleNetblockOuter(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	candidate := netip.MustParsePrefix("192.0.2.0/23")
	if rule.matchesNetblock(candidate) {
		t.Error("a broader candidate must not match a narrower rule")
	}
}

func TestIpRuleNetblockNoOverlap(t *testing.T) {
	rule, _ := newIpRule("192.0.2.0/24")
	candidate := netip.MustParsePrefix("192.0.3.0/24")
	if rule.matchesNetblock(candidate) {
		t.Error("expected no overlap")
	}
}

func TestUrlRuleExplicitOrigin(t *testing.T) {
	rule, err := newUrlRule("https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !rule.matchesURL("https://example.com:443/") {
		t.Error("expected default https port to match explicit :443")
	}
	if rule.precision() != 0 {
		t.Errorf("precision = %d, want 0", rule.precision())
	}
}

func TestUrlRuleSchemeMismatch(t *testing.T) {
	rule, _ := newUrlRule("https://example.com")
	if rule.matchesURL("http://example.com:443/") {
		t.Error("expected scheme mismatch")
	}
}

func TestUrlRulePortMismatch(t *testing.T) {
	rule, _ := newUrlRule("https://example.com")
	if rule.matchesURL("https://example.com:80/") {
		t.Error("expected port mismatch")
	}
}

func TestUrlRuleSubdomainMismatch(t *testing.T) {
	rule, _ := newUrlRule("https://example.com")
	if rule.matchesURL("https://www.example.com/") {
		t.Error("a parent-domain rule must not match a subdomain")
	}

	rule2, _ := newUrlRule("https://www.example.com")
	if rule2.matchesURL("https://example.com/") {
		t.Error("a subdomain rule must not match its parent")
	}
}

func TestUrlRulePathMatchImplicitSlash(t *testing.T) {
	rule, _ := newUrlRule("https://www.example.com/asset")
	if !rule.matchesURL("https://www.example.com/asset/") {
		t.Error("expected trailing slash to still match")
	}
	if rule.precision() != 1 {
		t.Errorf("precision = %d, want 1", rule.precision())
	}
}

func TestUrlRuleInFolder(t *testing.T) {
	rule, _ := newUrlRule("https://www.example.com/asset")
	if !rule.matchesURL("https://www.example.com/asset/style.css") {
		t.Error("expected a file inside the ruled folder to match")
	}
}

func TestUrlRuleOutsideOfPath(t *testing.T) {
	rule, _ := newUrlRule("https://www.example.com/asset")
	if rule.matchesURL("https://www.example.com/") {
		t.Error("expected a URL outside the rule's path to not match")
	}
}
