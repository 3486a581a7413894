package autonoscope

import (
	"testing"

	"github.com/kpcyrd/sn0int/pkg/db"
)

func TestRuleSetSortDomains(t *testing.T) {
	set := New(nil)
	for _, v := range []string{"com", ".", "example.com"} {
		if err := set.addToMemory(RuleTypeDomain, v, true); err != nil {
			t.Fatal(err)
		}
	}
	set.sortAll()

	want := []string{"example.com", "com", "."}
	if len(set.domains) != len(want) {
		t.Fatalf("got %d domain rules, want %d", len(set.domains), len(want))
	}
	for i, w := range want {
		if set.domains[i].rule.String() != w {
			t.Errorf("domains[%d] = %q, want %q", i, set.domains[i].rule.String(), w)
		}
	}
}

func TestRuleSetSortIps(t *testing.T) {
	set := New(nil)
	for _, v := range []string{"10.0.0.0/8", "0.0.0.0/0", "10.5.6.0/24"} {
		if err := set.addToMemory(RuleTypeIp, v, true); err != nil {
			t.Fatal(err)
		}
	}
	set.sortAll()

	want := []string{"10.5.6.0/24", "10.0.0.0/8", "0.0.0.0/0"}
	for i, w := range want {
		if set.ips[i].rule.String() != w {
			t.Errorf("ips[%d] = %q, want %q", i, set.ips[i].rule.String(), w)
		}
	}
}

func TestRuleSetMatchesDomainDefaultsToScoped(t *testing.T) {
	set := New(nil)
	scoped, err := set.Matches(db.FamilyDomain, map[string]interface{}{"value": "example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if !scoped {
		t.Error("an entity with no matching rule must default to scoped=true")
	}
}

func TestRuleSetMatchesLongestDomainWins(t *testing.T) {
	set := New(nil)
	must(t, set.addToMemory(RuleTypeDomain, "com", true))
	must(t, set.addToMemory(RuleTypeDomain, "example.com", false))
	set.sortAll()

	scoped, err := set.Matches(db.FamilyDomain, map[string]interface{}{"value": "example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if scoped {
		t.Error("the more precise example.com rule (scoped=false) should win over com")
	}
}

func TestRuleSetMatchesUrlChecksDomainRulesFirst(t *testing.T) {
	set := New(nil)
	must(t, set.addToMemory(RuleTypeDomain, "example.com", false))
	set.sortAll()

	scoped, err := set.Matches(db.FamilyUrl, map[string]interface{}{"value": "https://example.com/path"})
	if err != nil {
		t.Fatal(err)
	}
	if scoped {
		t.Error("a domain rule on the URL's host should determine its scope")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
