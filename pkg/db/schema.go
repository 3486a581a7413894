package db

// migrations are applied in order on every Open, tracked in a
// schema_migrations table — the same "small numbered steps" shape the
// teacher uses for config-merge layering, adapted here to real DDL.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`,

	`CREATE TABLE IF NOT EXISTS domains (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subdomains (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain_id INTEGER NOT NULL REFERENCES domains(id) ON DELETE CASCADE,
		value TEXT NOT NULL UNIQUE,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ipaddrs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family TEXT NOT NULL,
		value TEXT NOT NULL UNIQUE,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subdomain_ipaddrs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subdomain_id INTEGER NOT NULL REFERENCES subdomains(id) ON DELETE CASCADE,
		ip_addr_id INTEGER NOT NULL REFERENCES ipaddrs(id) ON DELETE CASCADE,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(subdomain_id, ip_addr_id)
	)`,
	`CREATE TABLE IF NOT EXISTS urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subdomain_id INTEGER REFERENCES subdomains(id) ON DELETE CASCADE,
		value TEXT NOT NULL UNIQUE,
		status INTEGER,
		body BLOB,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS emails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain_id INTEGER REFERENCES domains(id) ON DELETE CASCADE,
		value TEXT NOT NULL UNIQUE,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS phonenumbers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		name TEXT, valid BOOLEAN, carrier TEXT, line_type TEXT,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ip_addr_id INTEGER NOT NULL REFERENCES ipaddrs(id) ON DELETE CASCADE,
		value TEXT NOT NULL UNIQUE,
		port INTEGER NOT NULL,
		protocol TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'unknown',
		service TEXT,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS netblocks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family TEXT NOT NULL,
		value TEXT NOT NULL UNIQUE,
		asn INTEGER, as_org TEXT, description TEXT,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS networks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		latitude REAL, longitude REAL,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS devices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		name TEXT,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS network_devices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		network_id INTEGER NOT NULL REFERENCES networks(id) ON DELETE CASCADE,
		device_id INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		ipaddr TEXT, last_seen TIMESTAMP,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(network_id, device_id)
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		service TEXT NOT NULL,
		username TEXT NOT NULL,
		value TEXT NOT NULL UNIQUE,
		displayname TEXT, email TEXT, url TEXT, birthday TIMESTAMP,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS breaches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		filename TEXT, mime_type TEXT, width INTEGER, height INTEGER,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cryptoaddrs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL UNIQUE,
		currency TEXT NOT NULL,
		denominator TEXT,
		scoped BOOLEAN NOT NULL DEFAULT 1,
		ttl TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS autonoscope (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		object TEXT NOT NULL,
		value TEXT NOT NULL,
		scoped BOOLEAN NOT NULL,
		UNIQUE(object, value)
	)`,
	`CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic TEXT NOT NULL,
		time TIMESTAMP NOT NULL,
		content BLOB NOT NULL,
		location TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS activity_time_idx ON activity(time)`,
}

// tableFor maps a Family onto its table name. It is also the closed
// registry of known families, guarding db_add/db_select/db_update against
// anything a malicious or buggy child might send (spec §9: "the parent must
// validate family... before touching the DB").
var tableFor = map[Family]string{
	FamilyDomain:          "domains",
	FamilySubdomain:       "subdomains",
	FamilyIpAddr:          "ipaddrs",
	FamilySubdomainIpAddr: "subdomain_ipaddrs",
	FamilyUrl:             "urls",
	FamilyEmail:           "emails",
	FamilyPhoneNumber:     "phonenumbers",
	FamilyDevice:          "devices",
	FamilyNetwork:         "networks",
	FamilyNetworkDevice:   "network_devices",
	FamilyAccount:         "accounts",
	FamilyBreach:          "breaches",
	FamilyImage:           "images",
	FamilyPort:            "ports",
	FamilyNetblock:        "netblocks",
	FamilyCryptoAddr:      "cryptoaddrs",
}

// requiredFields lists the columns (besides the implicit id/scoped/ttl/
// created_at) that must be present in an insert payload for each family.
var requiredFields = map[Family][]string{
	FamilyDomain:          {"value"},
	FamilySubdomain:       {"domain_id", "value"},
	FamilyIpAddr:          {"family", "value"},
	FamilySubdomainIpAddr: {"subdomain_id", "ip_addr_id"},
	FamilyUrl:             {"value"},
	FamilyEmail:           {"value"},
	FamilyPhoneNumber:     {"value"},
	FamilyDevice:          {"value"},
	FamilyNetwork:         {"value"},
	FamilyNetworkDevice:   {"network_id", "device_id"},
	FamilyAccount:         {"service", "username", "value"},
	FamilyBreach:          {"value"},
	FamilyImage:           {"value"},
	FamilyPort:            {"ip_addr_id", "value", "port", "protocol"},
	FamilyNetblock:        {"family", "value"},
	FamilyCryptoAddr:      {"value", "currency"},
}

// AllColumns lists every non-implicit column per family, used to build the
// closed allow-list handed to Parse for filter expressions (spec §9).
var AllColumns = map[Family][]string{
	FamilyDomain:          {"id", "value", "scoped"},
	FamilySubdomain:       {"id", "domain_id", "value", "scoped"},
	FamilyIpAddr:          {"id", "family", "value", "scoped"},
	FamilySubdomainIpAddr: {"id", "subdomain_id", "ip_addr_id", "scoped"},
	FamilyUrl:             {"id", "subdomain_id", "value", "status", "scoped"},
	FamilyEmail:           {"id", "domain_id", "value", "scoped"},
	FamilyPhoneNumber:     {"id", "value", "name", "valid", "carrier", "line_type", "scoped"},
	FamilyDevice:          {"id", "value", "name", "scoped"},
	FamilyNetwork:         {"id", "value", "latitude", "longitude", "scoped"},
	FamilyNetworkDevice:   {"id", "network_id", "device_id", "ipaddr", "scoped"},
	FamilyAccount:         {"id", "service", "username", "value", "displayname", "email", "url", "scoped"},
	FamilyBreach:          {"id", "value", "scoped"},
	FamilyImage:           {"id", "value", "filename", "mime_type", "width", "height", "scoped"},
	FamilyPort:            {"id", "ip_addr_id", "value", "port", "protocol", "status", "service", "scoped"},
	FamilyNetblock:        {"id", "family", "value", "asn", "as_org", "description", "scoped"},
	FamilyCryptoAddr:      {"id", "value", "currency", "denominator", "scoped"},
}

func columnSet(family Family) map[string]bool {
	set := make(map[string]bool)
	for _, c := range AllColumns[family] {
		set[c] = true
	}
	return set
}
