// Package db implements the entity store (SPEC_FULL.md §4.6): a per-workspace
// SQLite file holding the typed OSINT entity graph of §3.1, the filter DSL of
// §4.10 and the activity log of §3.5. The struct layout mirrors the
// teacher's "one struct per table, an Insert variant and an Update variant"
// convention seen throughout original_source/src/models/*.rs, translated
// into idiomatic Go: exported fields, `db:"..."` tags instead of derive
// macros, and explicit Scan/Args helpers instead of an ORM.
package db

import "time"

// Family names an entity type, used both as the db_add/db_select/db_update
// IPC "family" discriminator (SPEC_FULL.md §6.4) and as the autonoscope
// RuleType dispatch key.
type Family string

const (
	FamilyDomain           Family = "domain"
	FamilySubdomain        Family = "subdomain"
	FamilySubdomainIpAddr  Family = "subdomain-ipaddr"
	FamilyIpAddr           Family = "ipaddr"
	FamilyUrl              Family = "url"
	FamilyEmail            Family = "email"
	FamilyPhoneNumber      Family = "phonenumber"
	FamilyDevice           Family = "device"
	FamilyNetwork          Family = "network"
	FamilyNetworkDevice    Family = "network-device"
	FamilyAccount          Family = "account"
	FamilyBreach           Family = "breach"
	FamilyImage            Family = "image"
	FamilyPort             Family = "port"
	FamilyNetblock         Family = "netblock"
	FamilyCryptoAddr       Family = "cryptoaddr"
)

// Entity is embedded by every concrete entity struct and carries the
// invariants shared by all of them (spec §3.1): a stable id, a scoped flag
// defaulting to true, an optional TTL expiry and a creation timestamp.
type Entity struct {
	ID        int64      `db:"id"`
	Scoped    bool       `db:"scoped"`
	TTL       *time.Time `db:"ttl"`
	CreatedAt time.Time  `db:"created_at"`
}

type Domain struct {
	Entity
	Value string `db:"value"`
}

type Subdomain struct {
	Entity
	DomainID int64  `db:"domain_id"`
	Value    string `db:"value"`
}

type IpAddr struct {
	Entity
	Family string `db:"family"` // "4" or "6"
	Value  string `db:"value"`
}

type SubdomainIpAddr struct {
	Entity
	SubdomainID int64 `db:"subdomain_id"`
	IpAddrID    int64 `db:"ip_addr_id"`
}

type Url struct {
	Entity
	// SubdomainID is nullable: when a URL's host is an IP literal there is
	// no Subdomain row to reference. See SPEC_FULL.md §9 open question —
	// the original behaviour (nullable FK, no synthesized bare-IP
	// subdomain) is preserved.
	SubdomainID *int64 `db:"subdomain_id"`
	Value       string `db:"value"`
	Status      *int   `db:"status"`
	Body        []byte `db:"body"`
}

type Email struct {
	Entity
	DomainID *int64 `db:"domain_id"`
	Value    string `db:"value"`
}

type PhoneNumber struct {
	Entity
	Value   string  `db:"value"`
	Name    *string `db:"name"`
	Valid   *bool   `db:"valid"`
	Carrier *string `db:"carrier"`
	LineType *string `db:"line_type"`
}

type Port struct {
	Entity
	IpAddrID int64  `db:"ip_addr_id"`
	Value    string `db:"value"` // canonical "ip:port/proto"
	Port     int    `db:"port"`
	Protocol string `db:"protocol"`
	Status   string `db:"status"`
	Service  *string `db:"service"`
}

type Netblock struct {
	Entity
	Family      string  `db:"family"` // "4" or "6"
	Value       string  `db:"value"`  // canonical CIDR
	ASN         *int64  `db:"asn"`
	ASOrg       *string `db:"as_org"`
	Description *string `db:"description"`
}

type Network struct {
	Entity
	Value      string  `db:"value"`
	Latitude   *float64 `db:"latitude"`
	Longitude  *float64 `db:"longitude"`
}

type Device struct {
	Entity
	Value string  `db:"value"` // MAC address
	Name  *string `db:"name"`
}

type NetworkDevice struct {
	Entity
	NetworkID int64   `db:"network_id"`
	DeviceID  int64   `db:"device_id"`
	IpAddr    *string `db:"ipaddr"`
	LastSeen  *time.Time `db:"last_seen"`
}

type Account struct {
	Entity
	Service  string  `db:"service"`
	Username string  `db:"username"`
	Value    string  `db:"value"` // "service:username"
	DisplayName *string `db:"displayname"`
	Email    *string `db:"email"`
	URL      *string `db:"url"`
	Birthday *time.Time `db:"birthday"`
}

type Breach struct {
	Entity
	Value string `db:"value"`
}

type Image struct {
	Entity
	Value  string  `db:"value"` // blob id
	Filename *string `db:"filename"`
	MimeType *string `db:"mime_type"`
	Width  *int    `db:"width"`
	Height *int    `db:"height"`
}

type CryptoAddr struct {
	Entity
	Value    string `db:"value"`
	Currency string `db:"currency"`
	Denominator *string `db:"denominator"`
}

// Activity is an append-only, time-indexed event emitted on every mutation
// (spec §3.5, §4.6 "all mutations emit an Activity row").
type Activity struct {
	ID       int64     `db:"id"`
	Topic    string    `db:"topic"`
	Time     time.Time `db:"time"`
	Content  []byte    `db:"content"` // JSON
	Location *string   `db:"location"`
}
