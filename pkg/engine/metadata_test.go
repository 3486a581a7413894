package engine

import "testing"

func TestParseMetadataMinimal(t *testing.T) {
	code := "-- Description: looks up subdomains\n" +
		"-- Version: 0.1.0\n" +
		"-- License: MIT\n" +
		"\n" +
		"function run(arg) end\n"

	m, err := ParseMetadata(code)
	if err != nil {
		t.Fatal(err)
	}
	if m.Description != "looks up subdomains" {
		t.Errorf("got description %q", m.Description)
	}
	if m.Source != SourceNone {
		t.Errorf("expected default Source none, got %q", m.Source)
	}
	if m.Stealth != StealthNormal {
		t.Errorf("expected default Stealth normal, got %q", m.Stealth)
	}
}

func TestParseMetadataFullGrammar(t *testing.T) {
	code := "-- Description: enumerate subdomains via CT logs\n" +
		"-- Version: 1.2.3\n" +
		"-- Source: domains\n" +
		"-- Stealth: passive\n" +
		"-- License: GPL-3.0\n" +
		"-- Keyring-Access: censys\n" +
		"-- Keyring-Access: shodan\n" +
		"-- Author: kpcyrd\n" +
		"-- Repository: https://example.com/repo\n" +
		"\n"

	m, err := ParseMetadata(code)
	if err != nil {
		t.Fatal(err)
	}
	if m.Source != SourceDomains {
		t.Errorf("got source %q", m.Source)
	}
	if m.Stealth != StealthPassive {
		t.Errorf("got stealth %q", m.Stealth)
	}
	if len(m.KeyringAccess) != 2 || m.KeyringAccess[0] != "censys" {
		t.Errorf("got keyring access %v", m.KeyringAccess)
	}
	if m.Repository != "https://example.com/repo" {
		t.Errorf("got repository %q", m.Repository)
	}
}

func TestParseMetadataKeyringSource(t *testing.T) {
	code := "-- Description: pulls an API key\n" +
		"-- Version: 0.1.0\n" +
		"-- Source: keyring:shodan\n" +
		"-- License: MIT\n" +
		"\n"

	m, err := ParseMetadata(code)
	if err != nil {
		t.Fatal(err)
	}
	if m.KeyringNS != "shodan" {
		t.Errorf("got keyring namespace %q", m.KeyringNS)
	}
}

func TestParseMetadataMissingRequiredField(t *testing.T) {
	code := "-- Description: incomplete module\n" +
		"-- Version: 0.1.0\n" +
		"\n"

	if _, err := ParseMetadata(code); err == nil {
		t.Fatal("expected an error for a missing License field")
	}
}

func TestParseMetadataUnknownSource(t *testing.T) {
	code := "-- Description: x\n" +
		"-- Version: 0.1.0\n" +
		"-- Source: bogus\n" +
		"-- License: MIT\n" +
		"\n"

	if _, err := ParseMetadata(code); err == nil {
		t.Fatal("expected an error for an unknown Source value")
	}
}

func TestParseMetadataInvalidVersion(t *testing.T) {
	code := "-- Description: x\n" +
		"-- Version: not-a-semver\n" +
		"-- License: MIT\n" +
		"\n"

	if _, err := ParseMetadata(code); err == nil {
		t.Fatal("expected an error for a non-semver Version value")
	}
}
