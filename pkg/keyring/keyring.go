// Package keyring implements the persistent namespaced credential store
// (component C2, SPEC_FULL.md §4.9): one JSON file under the user data
// directory holding namespace->{access_key->optional secret} entries plus a
// namespace->set<module id> grants map. Grounded on
// _examples/original_source/src/keyring.rs, with one deliberate behavior
// change over the original: Save writes to a temp file, fsyncs, and renames
// into place instead of truncating the live file in place, per SPEC_FULL.md
// §9's design note ("a crash mid-save must never leave keyring.json
// truncated or half-written").
package keyring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Name identifies a single credential within a namespace, e.g. "shodan:key".
type Name struct {
	Namespace string `json:"namespace"`
	Key       string `json:"name"`
}

func (n Name) String() string {
	return n.Namespace + ":" + n.Key
}

// ParseName splits "namespace:key" into a Name.
func ParseName(s string) (Name, error) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return Name{}, fmt.Errorf("missing namespace in keyring name %q", s)
	}
	namespace, key := s[:idx], s[idx+1:]
	if namespace == "" {
		return Name{}, fmt.Errorf("namespace cannot be empty")
	}
	if key == "" {
		return Name{}, fmt.Errorf("key cannot be empty")
	}
	return Name{Namespace: namespace, Key: key}, nil
}

// Entry is a single resolved credential, handed to a module via its Start
// message's keyring[] field.
type Entry struct {
	Namespace string  `json:"namespace"`
	AccessKey string  `json:"access_key"`
	SecretKey *string `json:"secret_key,omitempty"`
}

// Matches reports whether query ("namespace" or "namespace:key") selects e.
func (e Entry) Matches(query string) bool {
	if idx := strings.Index(query, ":"); idx >= 0 {
		namespace, key := query[:idx], query[idx+1:]
		return e.Namespace == namespace && e.AccessKey == key
	}
	return e.Namespace == query
}

// KeyRing is the serialized keyring.json document.
type KeyRing struct {
	path string

	Keys   map[string]map[string]*string `json:"keys"`
	Grants map[string]map[string]bool    `json:"grants"`
}

// New returns an empty keyring persisted at path.
func New(path string) *KeyRing {
	return &KeyRing{
		path:   path,
		Keys:   make(map[string]map[string]*string),
		Grants: make(map[string]map[string]bool),
	}
}

// Open loads path if it exists, or returns a fresh empty keyring otherwise.
func Open(path string) (*KeyRing, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(path), nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring file: %w", err)
	}

	var kr KeyRing
	if err := json.Unmarshal(buf, &kr); err != nil {
		return nil, fmt.Errorf("failed to parse keyring file: %w", err)
	}
	kr.path = path
	if kr.Keys == nil {
		kr.Keys = make(map[string]map[string]*string)
	}
	if kr.Grants == nil {
		kr.Grants = make(map[string]map[string]bool)
	}
	return &kr, nil
}

// Save atomically persists the keyring: write to a sibling temp file, fsync
// it, then rename over the destination. Rename is atomic on POSIX
// filesystems, so a crash mid-write never corrupts the live file.
func (k *KeyRing) Save() error {
	buf, err := json.Marshal(k)
	if err != nil {
		return err
	}

	dir := filepath.Dir(k.path)
	tmp, err := os.CreateTemp(dir, ".keyring-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp keyring file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp keyring file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to fsync temp keyring file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, k.path); err != nil {
		return fmt.Errorf("failed to replace keyring file: %w", err)
	}
	return nil
}

// Insert stores (or overwrites) a single credential, then saves.
func (k *KeyRing) Insert(name Name, secret *string) error {
	ns, ok := k.Keys[name.Namespace]
	if !ok {
		ns = make(map[string]*string)
	}
	ns[name.Key] = secret
	k.Keys[name.Namespace] = ns
	return k.Save()
}

// Delete removes a single credential, then saves. Deleting the last key in
// a namespace drops the namespace entirely.
func (k *KeyRing) Delete(name Name) error {
	ns, ok := k.Keys[name.Namespace]
	if !ok {
		return nil
	}
	delete(ns, name.Key)
	if len(ns) == 0 {
		delete(k.Keys, name.Namespace)
	} else {
		k.Keys[name.Namespace] = ns
	}
	return k.Save()
}

// List returns every stored Name across all namespaces.
func (k *KeyRing) List() []Name {
	var out []Name
	for ns, entries := range k.Keys {
		for key := range entries {
			out = append(out, Name{Namespace: ns, Key: key})
		}
	}
	return out
}

// ListFor returns every Name within a single namespace.
func (k *KeyRing) ListFor(namespace string) []Name {
	var out []Name
	for key := range k.Keys[namespace] {
		out = append(out, Name{Namespace: namespace, Key: key})
	}
	return out
}

// Get resolves a single Name into its Entry, if present.
func (k *KeyRing) Get(name Name) (Entry, bool) {
	ns, ok := k.Keys[name.Namespace]
	if !ok {
		return Entry{}, false
	}
	secret, ok := ns[name.Key]
	if !ok {
		return Entry{}, false
	}
	return Entry{Namespace: name.Namespace, AccessKey: name.Key, SecretKey: secret}, true
}

// GetAllFor resolves every Name in namespace into its Entry.
func (k *KeyRing) GetAllFor(namespace string) []Entry {
	var out []Entry
	for _, name := range k.ListFor(namespace) {
		if e, ok := k.Get(name); ok {
			out = append(out, e)
		}
	}
	return out
}

// GrantAccess records that moduleID may read namespace. Persists immediately
// so a subsequent session remembers the grant.
func (k *KeyRing) GrantAccess(moduleID, namespace string) error {
	grants, ok := k.Grants[namespace]
	if !ok {
		grants = make(map[string]bool)
	}
	grants[moduleID] = true
	k.Grants[namespace] = grants
	return k.Save()
}

// IsAccessGranted reports whether moduleID has been granted namespace.
func (k *KeyRing) IsAccessGranted(moduleID, namespace string) bool {
	grants, ok := k.Grants[namespace]
	if !ok {
		return false
	}
	return grants[moduleID]
}

// UnauthorizedNamespaces filters namespaces down to the ones moduleID has
// not (yet) been granted, used to prompt the analyst before a module's
// first run.
func (k *KeyRing) UnauthorizedNamespaces(moduleID string, namespaces []string) []string {
	var out []string
	for _, ns := range namespaces {
		if !k.IsAccessGranted(moduleID, ns) {
			out = append(out, ns)
		}
	}
	return out
}

// RequestKeys is the flat-map described in SPEC_FULL.md §4.9: every entry in
// every namespace moduleID both declares and has been granted, handed to
// the module's Start message verbatim.
func (k *KeyRing) RequestKeys(moduleID string, namespaces []string) []Entry {
	var out []Entry
	for _, ns := range namespaces {
		if !k.IsAccessGranted(moduleID, ns) {
			continue
		}
		out = append(out, k.GetAllFor(ns)...)
	}
	return out
}
