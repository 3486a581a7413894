// Package paths resolves the on-disk layout described in SPEC_FULL.md §6.1:
// a data directory for workspaces/modules/blobs, a cache directory for the
// GeoIP/PSL downloads and a config directory for sn0int.toml.
package paths

import (
	"os"
	"path/filepath"

	"github.com/OpenPeeDeeP/xdg"
)

const appName = "sn0int"

var x = xdg.New("", appName)

// DataDir returns <data_dir>/, creating it if necessary.
func DataDir() (string, error) {
	dir := x.DataHome()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// CacheDir returns <cache_dir>/, creating it if necessary.
func CacheDir() (string, error) {
	dir := x.CacheHome()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigDir returns <config_dir>/, creating it if necessary.
func ConfigDir() (string, error) {
	dir := x.ConfigHome()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// ModuleDir returns <data_dir>/modules.
func ModuleDir() (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "modules")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// BlobDir returns <data_dir>/blobs/<workspace>.
func BlobDir(workspace string) (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "blobs", workspace)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// WorkspaceDB returns <data_dir>/<workspace>.db.
func WorkspaceDB(workspace string) (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, workspace+".db"), nil
}

// KeyringPath returns <data_dir>/keyring.json.
func KeyringPath() (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "keyring.json"), nil
}

// AutoupdatePath returns <data_dir>/autoupdate.json.
func AutoupdatePath() (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "autoupdate.json"), nil
}

// HistoryPath returns <data_dir>/history.
func HistoryPath() (string, error) {
	base, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "history"), nil
}

// ConfigFile returns <config_dir>/sn0int.toml.
func ConfigFile() (string, error) {
	base, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sn0int.toml"), nil
}

// GeoIPCityDB returns <cache_dir>/GeoLite2-City.mmdb.
func GeoIPCityDB() (string, error) {
	base, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "GeoLite2-City.mmdb"), nil
}

// GeoIPASNDB returns <cache_dir>/GeoLite2-ASN.mmdb.
func GeoIPASNDB() (string, error) {
	base, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "GeoLite2-ASN.mmdb"), nil
}

// PublicSuffixList returns <cache_dir>/public_suffix_list.dat.
func PublicSuffixList() (string, error) {
	base, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "public_suffix_list.dat"), nil
}
