// Package update implements the auto-updater (component C15,
// SPEC_FULL.md §2/§6.1): an advisory, best-effort background check of
// whether the registry has moved since the last look and whether any
// installed module has a newer published version. Grounded on
// _examples/original_source/src/update.rs's AutoUpdater, translated from
// its SystemTime/serde_json persistence into time.Time and
// encoding/json. Per spec §7 ("auto-updater and telemetry errors are
// warned and swallowed"), every exported entry point here returns an
// error only for the caller to log; nothing here is ever fatal.
package update

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kpcyrd/sn0int/pkg/registry"
)

// interval is how long to wait between background freshness checks.
const interval = 7 * 24 * time.Hour

// State is the persisted contents of <data_dir>/autoupdate.json.
type State struct {
	Registry   *int64 `json:"registry,omitempty"`
	LastUpdate int64  `json:"last_update"`
	Outdated   int    `json:"outdated"`

	path string
}

// Load reads path if present, or returns a fresh zero-value State
// otherwise — a missing or corrupt file is never an error, matching
// update.rs's unwrap_or_else fallbacks.
func Load(path string) *State {
	s := &State{path: path}

	buf, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	_ = json.Unmarshal(buf, s)
	s.path = path
	return s
}

// Save persists the state back to disk.
func (s *State) Save() error {
	buf, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, buf, 0o600)
}

// Due reports whether enough time has passed since the last check to run
// another one.
func (s *State) Due(now time.Time) bool {
	return time.Unix(s.LastUpdate, 0).Add(interval).Before(now)
}

// Installed is the subset of a local module's identity the updater needs
// to compare against the registry.
type Installed struct {
	Author  string
	Name    string
	Version string
	Private bool
}

// CheckBackground runs a single freshness check if the configured
// interval has elapsed and autoupdate is enabled, spawning it on its own
// goroutine so the caller's command returns immediately — update.rs's
// check_background, translated from a detached std::thread to a Go
// goroutine.
func CheckBackground(s *State, noAutoupdate bool, client *registry.Client, modules []Installed, log *logrus.Entry) {
	if noAutoupdate {
		log.Debug("auto update has been disabled, skipping")
		return
	}
	if !s.Due(time.Now()) {
		log.Debug("auto update timer hasn't expired yet")
		return
	}

	go func() {
		if err := checkUpdates(s, client, modules, log); err != nil {
			log.WithError(err).Warn("auto-updater failed")
		} else {
			log.Debug("auto-updater finished")
		}
	}()
}

func checkUpdates(s *State, client *registry.Client, modules []Installed, log *logrus.Entry) error {
	latest, err := client.LatestRelease()
	if err != nil {
		return err
	}

	changed := (s.Registry == nil) != (latest.Time == nil)
	if !changed && s.Registry != nil && latest.Time != nil {
		changed = *s.Registry != *latest.Time
	}

	if changed {
		outdated := 0
		for _, mod := range modules {
			if mod.Private {
				log.Debugf("%s/%s is a private module, skipping", mod.Author, mod.Name)
				continue
			}

			info, err := client.Info(mod.Author, mod.Name)
			if err != nil {
				log.WithError(err).Debugf("failed to query %s/%s", mod.Author, mod.Name)
				continue
			}
			if info.Latest != "" && info.Latest != mod.Version {
				log.Debugf("outdated: %s/%s: %s -> %s", mod.Author, mod.Name, mod.Version, info.Latest)
				outdated++
			}
		}
		s.Outdated = outdated
	}

	s.Registry = latest.Time
	s.LastUpdate = time.Now().Unix()
	return s.Save()
}
