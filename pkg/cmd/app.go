// Package cmd wires every other package into the CLI surface (component
// A4, SPEC_FULL.md §4.13): one *cobra.Command per file, all sharing a
// single App context built once by the root command's persistent
// pre-run hook, the same role the original's `Shell` parameter threaded
// through every src/cmd/*.rs handler plays.
package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kpcyrd/sn0int/pkg/autonoscope"
	"github.com/kpcyrd/sn0int/pkg/blob"
	"github.com/kpcyrd/sn0int/pkg/config"
	"github.com/kpcyrd/sn0int/pkg/db"
	"github.com/kpcyrd/sn0int/pkg/keyring"
	"github.com/kpcyrd/sn0int/pkg/log"
	"github.com/kpcyrd/sn0int/pkg/paths"
	"github.com/kpcyrd/sn0int/pkg/registry"
)

// DefaultWorkspace is used whenever -w/--workspace is not given (spec
// §6.1's "default" workspace).
const DefaultWorkspace = "default"

// App is the shared state every subcommand reaches for, built once in
// root.go's PersistentPreRunE and torn down by main.go calling Close after
// the command tree has run.
type App struct {
	Version string

	Workspace string
	Verbose   int
	Debug     bool
	Proxy     string
	UserAgent string
	Workers   int

	Config  *config.Config
	Log     *logrus.Entry
	DataDir string

	store   *db.Store
	blobs   *blob.Storage
	keyring *keyring.KeyRing
	scope   *autonoscope.RuleSet
	local   *registry.Local
	client  *registry.Client
}

// NewApp returns an App with nothing opened yet; Init resolves config
// and logging, everything else opens lazily on first use so that
// commands which don't touch the workspace (paths, completions,
// keyring list) never create one.
func NewApp(version string) *App {
	return &App{Version: version, Workspace: DefaultWorkspace}
}

// Init loads sn0int.toml and stands up the session logger. Called once
// from the root command's PersistentPreRunE, before any subcommand's
// RunE.
func (a *App) Init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.Config = cfg

	dataDir, err := paths.DataDir()
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	a.DataDir = dataDir

	a.Log = log.NewLogger(dataDir, a.Version, a.Debug)
	if a.Proxy == "" {
		a.Proxy = cfg.Network.Proxy
	}
	return nil
}

// Store lazily opens the workspace's entity store, wiring its autonoscope
// RuleSet in as the Scoper only after the RuleSet itself has been loaded
// from that very store — mirroring mod.rs's bootstrap order ("open the
// database, load the ruleset from it, then hand the ruleset back to the
// database").
func (a *App) Store() (*db.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	dbPath, err := paths.WorkspaceDB(a.Workspace)
	if err != nil {
		return nil, err
	}
	store, err := db.Open(dbPath, a.Workspace, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace %q: %w", a.Workspace, err)
	}

	ruleset, err := autonoscope.Load(store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load autonoscope rules: %w", err)
	}
	store.Scope = ruleset

	a.store = store
	a.scope = ruleset
	return a.store, nil
}

// Scope returns the workspace's autonoscope RuleSet, opening the store
// first if necessary.
func (a *App) Scope() (*autonoscope.RuleSet, error) {
	if a.scope != nil {
		return a.scope, nil
	}
	if _, err := a.Store(); err != nil {
		return nil, err
	}
	return a.scope, nil
}

// Blobs lazily opens the workspace's blob storage.
func (a *App) Blobs() (*blob.Storage, error) {
	if a.blobs != nil {
		return a.blobs, nil
	}
	dir, err := paths.BlobDir(a.Workspace)
	if err != nil {
		return nil, err
	}
	a.blobs = blob.New(dir)
	return a.blobs, nil
}

// Keyring lazily opens the process-wide (not per-workspace) keyring.
func (a *App) Keyring() (*keyring.KeyRing, error) {
	if a.keyring != nil {
		return a.keyring, nil
	}
	path, err := paths.KeyringPath()
	if err != nil {
		return nil, err
	}
	kr, err := keyring.Open(path)
	if err != nil {
		return nil, err
	}
	a.keyring = kr
	return a.keyring, nil
}

// LocalRegistry lazily indexes <data_dir>/modules.
func (a *App) LocalRegistry() (*registry.Local, error) {
	if a.local != nil {
		return a.local, nil
	}
	dir, err := paths.ModuleDir()
	if err != nil {
		return nil, err
	}
	local, err := registry.OpenLocal(dir)
	if err != nil {
		return nil, err
	}
	a.local = local
	return a.local, nil
}

// RegistryClient lazily builds the HTTP client for the configured
// registry, authenticating with the stored session if one exists.
func (a *App) RegistryClient() (*registry.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	baseURL := config.DefaultRegistry
	if a.Config != nil && a.Config.Core.Registry != "" {
		baseURL = a.Config.Core.Registry
	}
	client := registry.NewClient(baseURL)

	kr, err := a.Keyring()
	if err == nil {
		if entry, ok := kr.Get(keyring.Name{Namespace: "sn0int-registry", Key: "session"}); ok && entry.SecretKey != nil {
			client.Authenticate(*entry.SecretKey)
		}
	}

	a.client = client
	return a.client, nil
}

// Close closes the workspace store, if Store opened one.
func (a *App) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// ReapTTL expires stale rows before any read-heavy command (export,
// stats) runs, per spec §4.6.
func ReapTTL(store *db.Store) error {
	return store.TTLReap(time.Now())
}
