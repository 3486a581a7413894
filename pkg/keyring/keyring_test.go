package keyring

import (
	"path/filepath"
	"testing"
)

func TestParseNameValid(t *testing.T) {
	n, err := ParseName("a:b")
	if err != nil {
		t.Fatal(err)
	}
	if n.Namespace != "a" || n.Key != "b" {
		t.Errorf("got %+v", n)
	}
}

func TestParseNameInvalid(t *testing.T) {
	for _, s := range []string{"a:", ":a", ":", "a", ""} {
		if _, err := ParseName(s); err == nil {
			t.Errorf("ParseName(%q) should have failed", s)
		}
	}
}

func TestInsertGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.json")
	kr := New(path)

	secret := "sekrit"
	name := Name{Namespace: "shodan", Key: "default"}
	if err := kr.Insert(name, &secret); err != nil {
		t.Fatal(err)
	}

	entry, ok := kr.Get(name)
	if !ok {
		t.Fatal("expected entry to be present")
	}
	if entry.SecretKey == nil || *entry.SecretKey != "sekrit" {
		t.Errorf("got %+v", entry)
	}

	if err := kr.Delete(name); err != nil {
		t.Fatal(err)
	}
	if _, ok := kr.Get(name); ok {
		t.Error("expected entry to be gone after delete")
	}
}

func TestSaveIsAtomicAndReloadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.json")
	kr := New(path)

	secret := "sekrit"
	if err := kr.Insert(Name{Namespace: "shodan", Key: "default"}, &secret); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reloaded.Get(Name{Namespace: "shodan", Key: "default"}); !ok {
		t.Error("expected reloaded keyring to contain the saved entry")
	}
}

func TestGrantAndRequestKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.json")
	kr := New(path)

	secret := "sekrit"
	if err := kr.Insert(Name{Namespace: "shodan", Key: "default"}, &secret); err != nil {
		t.Fatal(err)
	}

	unauthorized := kr.UnauthorizedNamespaces("kpcyrd/shodan-module", []string{"shodan"})
	if len(unauthorized) != 1 {
		t.Fatalf("expected shodan to be unauthorized before a grant, got %v", unauthorized)
	}

	if err := kr.GrantAccess("kpcyrd/shodan-module", "shodan"); err != nil {
		t.Fatal(err)
	}

	unauthorized = kr.UnauthorizedNamespaces("kpcyrd/shodan-module", []string{"shodan"})
	if len(unauthorized) != 0 {
		t.Errorf("expected no unauthorized namespaces after grant, got %v", unauthorized)
	}

	keys := kr.RequestKeys("kpcyrd/shodan-module", []string{"shodan"})
	if len(keys) != 1 || keys[0].AccessKey != "default" {
		t.Errorf("got %+v", keys)
	}
}

func TestEntryMatches(t *testing.T) {
	e := Entry{Namespace: "shodan", AccessKey: "default"}
	if !e.Matches("shodan") {
		t.Error("expected bare namespace query to match")
	}
	if !e.Matches("shodan:default") {
		t.Error("expected namespace:key query to match")
	}
	if e.Matches("shodan:other") {
		t.Error("expected mismatched key to not match")
	}
}
