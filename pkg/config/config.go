// Package config handles sn0int.toml, the top-level runtime configuration
// file: a typed struct per TOML table, decoded with BurntSushi/toml
// straight into a struct tagged with the on-disk field names.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kpcyrd/sn0int/pkg/paths"
)

// CoreConfig is the [core] table.
type CoreConfig struct {
	Registry        string `toml:"registry"`
	NoAutoupdate    bool   `toml:"no-autoupdate"`
	RequireSandbox  bool   `toml:"require_sandbox"`
}

// NetworkConfig is the [network] table.
type NetworkConfig struct {
	Proxy string `toml:"proxy"`
}

// NotifyConfig is one [notifications.<name>] table, matching
// notify.Config's shape so it can be converted directly.
type NotifyConfig struct {
	Workspaces []string          `toml:"workspaces"`
	Topics     []string          `toml:"topics"`
	Script     string            `toml:"script"`
	Options    map[string]string `toml:"options"`
}

// Config is the full contents of sn0int.toml.
type Config struct {
	Core          CoreConfig              `toml:"core"`
	Namespaces    map[string]string       `toml:"namespaces"`
	Network       NetworkConfig           `toml:"network"`
	Notifications map[string]NotifyConfig `toml:"notifications"`
}

// DefaultRegistry is used when [core].registry is unset.
const DefaultRegistry = "https://sn0int.com"

// Default returns the configuration used when no sn0int.toml exists.
func Default() *Config {
	return &Config{
		Core: CoreConfig{
			Registry: DefaultRegistry,
		},
		Namespaces: map[string]string{},
	}
}

// Load reads <config_dir>/sn0int.toml, falling back to Default() when the
// file does not exist.
func Load() (*Config, error) {
	path, err := paths.ConfigFile()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.Core.Registry == "" {
		cfg.Core.Registry = DefaultRegistry
	}
	if cfg.Namespaces == nil {
		cfg.Namespaces = map[string]string{}
	}
	if cfg.Notifications == nil {
		cfg.Notifications = map[string]NotifyConfig{}
	}

	return cfg, nil
}
