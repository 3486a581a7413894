// Package engine embeds the module scripting VM (component C6,
// SPEC_FULL.md §4.4/§4.9): a dynamically typed Value union that marshals
// to/from JSON, a last-error slot, a blob table of ids the module may
// reference, and the metadata preamble grammar every module source file
// starts with. Grounded on _examples/original_source/src/engine/{mod,
// metadata,structs,isolation}.rs, translated from hlua to
// github.com/yuin/gopher-lua.
package engine

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Source names the kind of entity a module consumes as its one argument,
// or "none" for an argument-less module.
type Source string

const (
	SourceDomains            Source = "domains"
	SourceSubdomains         Source = "subdomains"
	SourceSubdomainIPAddrs   Source = "subdomain-ipaddrs"
	SourceIPAddrs            Source = "ipaddrs"
	SourceURLs               Source = "urls"
	SourceEmails             Source = "emails"
	SourcePhoneNumbers       Source = "phonenumbers"
	SourceDevices            Source = "devices"
	SourceNetworks           Source = "networks"
	SourceAccounts           Source = "accounts"
	SourceBreaches           Source = "breaches"
	SourceImages             Source = "images"
	SourcePorts              Source = "ports"
	SourceNetblocks          Source = "netblocks"
	SourceCryptoAddrs        Source = "cryptoaddrs"
	SourceNotifications      Source = "notifications"
	SourceNone               Source = "none"
	keyringSourcePrefix             = "keyring:"
)

var validSources = map[Source]bool{
	SourceDomains: true, SourceSubdomains: true, SourceSubdomainIPAddrs: true,
	SourceIPAddrs: true, SourceURLs: true, SourceEmails: true,
	SourcePhoneNumbers: true, SourceDevices: true, SourceNetworks: true,
	SourceAccounts: true, SourceBreaches: true, SourceImages: true,
	SourcePorts: true, SourceNetblocks: true, SourceCryptoAddrs: true,
	SourceNotifications: true, SourceNone: true,
}

// Stealth classifies how noisy a module is expected to be toward its target.
type Stealth string

const (
	StealthLoud    Stealth = "loud"
	StealthNormal  Stealth = "normal"
	StealthPassive Stealth = "passive"
	StealthOffline Stealth = "offline"
)

var validLicenses = map[string]bool{
	"MIT": true, "GPL-3.0": true, "LGPL-3.0": true,
	"BSD-2-Clause": true, "BSD-3-Clause": true, "WTFPL": true,
}

// Metadata is a module's parsed header (SPEC_FULL.md §4.9).
type Metadata struct {
	Description    string
	Version        semver.Version
	Source         Source
	KeyringNS      string // set when Source has a "keyring:<namespace>" form
	Stealth        Stealth
	License        string
	KeyringAccess  []string
	Authors        []string
	Repository     string
}

// ParseMetadata reads the `-- Key: value` preamble at the top of code up to
// the first blank (or non-comment) line, exactly as
// engine/metadata.rs's metalines parser does, generalized to the fuller
// grammar SPEC_FULL.md §4.9 adds.
func ParseMetadata(code string) (Metadata, error) {
	var (
		m            Metadata
		haveDesc     bool
		haveVersion  bool
		haveLicense  bool
		sawSource    bool
		sawStealth   bool
	)
	m.Stealth = StealthNormal

	scanner := bufio.NewScanner(strings.NewReader(code))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		if !strings.HasPrefix(trimmed, "--") {
			break
		}

		body := strings.TrimSpace(strings.TrimPrefix(trimmed, "--"))
		idx := strings.Index(body, ":")
		if idx < 0 {
			return Metadata{}, fmt.Errorf("malformed metadata line: %q", line)
		}
		key := strings.TrimSpace(body[:idx])
		value := strings.TrimSpace(body[idx+1:])

		switch key {
		case "Description":
			m.Description = value
			haveDesc = true
		case "Version":
			v, err := semver.Parse(value)
			if err != nil {
				return Metadata{}, fmt.Errorf("invalid Version: %w", err)
			}
			m.Version = v
			haveVersion = true
		case "Source":
			if sawSource {
				return Metadata{}, fmt.Errorf("duplicate Source entry")
			}
			sawSource = true
			if strings.HasPrefix(value, keyringSourcePrefix) {
				m.Source = "keyring"
				m.KeyringNS = strings.TrimPrefix(value, keyringSourcePrefix)
			} else if !validSources[Source(value)] {
				return Metadata{}, fmt.Errorf("unknown Source: %q", value)
			} else {
				m.Source = Source(value)
			}
		case "Stealth":
			sawStealth = true
			switch Stealth(value) {
			case StealthLoud, StealthNormal, StealthPassive, StealthOffline:
				m.Stealth = Stealth(value)
			default:
				return Metadata{}, fmt.Errorf("unknown Stealth: %q", value)
			}
		case "License":
			if !validLicenses[value] {
				return Metadata{}, fmt.Errorf("unknown License: %q", value)
			}
			m.License = value
			haveLicense = true
		case "Keyring-Access":
			m.KeyringAccess = append(m.KeyringAccess, value)
		case "Author":
			m.Authors = append(m.Authors, value)
		case "Repository":
			m.Repository = value
		default:
			return Metadata{}, fmt.Errorf("unknown metadata key: %q", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, err
	}

	if !haveDesc {
		return Metadata{}, fmt.Errorf("Description is required")
	}
	if !haveVersion {
		return Metadata{}, fmt.Errorf("Version is required")
	}
	if !haveLicense {
		return Metadata{}, fmt.Errorf("License is required")
	}
	if !sawSource {
		m.Source = SourceNone
	}
	_ = sawStealth

	return m, nil
}
