// Package supervisor implements the parent half of the sandboxed module
// runner (component C9's parent side and C11, the worker pool,
// SPEC_FULL.md §4.3): it re-execs the current binary as a "sandbox" child
// per task, sends a Start message, pumps the child's IPC requests against
// the real entity store, blob store and rate limiter, and joins the
// child's exit. Grounded on pkg/worker/bridge.go (the child-side request
// shapes this package answers) and the original's ipc/parent.rs request
// dispatch loop, with the goroutine-pool/signal-handling idiom borrowed
// from a subprocess-lifecycle pattern of signal.Notify + Process.Kill
// around long-running child processes.
package supervisor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/kpcyrd/sn0int/pkg/blob"
	"github.com/kpcyrd/sn0int/pkg/db"
	"github.com/kpcyrd/sn0int/pkg/host/ratelimit"
	"github.com/kpcyrd/sn0int/pkg/ipc"
	"github.com/kpcyrd/sn0int/pkg/keyring"
)

// Task is one queued module invocation: the module to run, its one
// argument and any blob bytes the caller already knows the module will
// need (SPEC_FULL.md §4.3's task queue entry).
type Task struct {
	Module ipc.ModuleRef
	Arg    []byte
	Blobs  []ipc.StartBlob
	Label  string
}

// Options configures a Supervisor's children and its scheduling policy.
type Options struct {
	Workers     int
	ExitOnError bool
	Verbose     int
	Proxy       string
	UserAgent   string
	DNSConfig   ipc.DNSConfig
	ModOptions  map[string]string
}

// Supervisor owns every piece of shared state a running module may reach
// for through IPC: the workspace's entity store, its blob storage, the
// keyring and a process-wide rate limiter.
type Supervisor struct {
	db      *db.Store
	blobs   *blob.Storage
	keyring *keyring.KeyRing
	limiter *ratelimit.Limiter
	log     *logrus.Entry
	opts    Options

	exePath string
	stdin   *bufio.Reader
}

// New builds a Supervisor bound to store/blobs/keyring. keyring may be
// nil when no namespaces need resolving (e.g. export/fsck-only runs never
// reach here at all, but tests construct a Supervisor without one).
func New(store *db.Store, blobs *blob.Storage, kr *keyring.KeyRing, logger *logrus.Entry, opts Options) (*Supervisor, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve own executable path: %w", err)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Supervisor{
		db:      store,
		blobs:   blobs,
		keyring: kr,
		limiter: ratelimit.New(),
		log:     logger,
		opts:    opts,
		exePath: exe,
		stdin:   bufio.NewReader(os.Stdin),
	}, nil
}

// Summary tallies the outcome of a RunAll call for the CLI to report.
type Summary struct {
	Total     int
	OK        int
	Failed    int
	Cancelled int
}

func (sum Summary) String() string {
	return fmt.Sprintf("%d ok, %d failed, %d cancelled (of %d)", sum.OK, sum.Failed, sum.Cancelled, sum.Total)
}

// spawnChild re-execs the supervisor's own binary as `<exe> sandbox
// <label>`, wiring its stdin/stdout to a fresh ipc.Conn. The "sandbox"
// subcommand is the only place pkg/sandbox.Init and pkg/worker.Run are
// ever invoked (pkg/cmd/sandbox.go), so every module body always executes
// inside the hardened child process, never in the supervisor itself.
func (s *Supervisor) spawnChild(ctx context.Context, task Task) (*exec.Cmd, *ipc.Conn, error) {
	cmd := exec.CommandContext(ctx, s.exePath, "sandbox", task.Label)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open child stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open child stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to spawn sandboxed child: %w", err)
	}

	return cmd, ipc.NewConn(stdout, stdin), nil
}

func (s *Supervisor) buildStart(task Task) ipc.Start {
	start := ipc.NewStart()
	start.Verbose = s.opts.Verbose
	start.Module = task.Module
	start.Arg = task.Arg
	start.Blobs = task.Blobs
	start.DNSConfig = s.opts.DNSConfig
	if s.opts.Proxy != "" {
		start.Proxy = &s.opts.Proxy
	}
	if s.opts.UserAgent != "" {
		start.UserAgent = &s.opts.UserAgent
	}
	for k, v := range s.opts.ModOptions {
		start.Options[k] = v
	}

	if s.keyring != nil {
		moduleID := task.Module.Author + "/" + task.Module.Name
		namespaces := keyringNamespaces(task.Module)
		for _, e := range s.keyring.RequestKeys(moduleID, namespaces) {
			start.Keyring = append(start.Keyring, ipc.KeyringEntry{
				Namespace: e.Namespace,
				AccessKey: e.AccessKey,
				SecretKey: e.SecretKey,
			})
		}
	}

	return start
}

// keyringNamespaces extracts the "Keyring-Access" namespaces a module
// declared, plus its bare Source namespace when it reads
// "keyring:<namespace>" (SPEC_FULL.md §4.9).
func keyringNamespaces(mod ipc.ModuleRef) []string {
	var meta struct {
		KeyringAccess []string `json:"keyring_access"`
		KeyringNS     string   `json:"keyring_ns"`
	}
	if len(mod.Metadata) > 0 {
		_ = json.Unmarshal(mod.Metadata, &meta)
	}
	namespaces := append([]string{}, meta.KeyringAccess...)
	if meta.KeyringNS != "" {
		namespaces = append(namespaces, meta.KeyringNS)
	}
	return namespaces
}
