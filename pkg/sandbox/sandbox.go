// Package sandbox hardens a freshly exec'd "sandbox" child before it loads
// any module source (component C8, SPEC_FULL.md §4.1): chroot into an empty
// directory, drop every capability, then install a seccomp allow-list.
// Grounded on _examples/original_source/src/sandbox/{mod,seccomp}.rs,
// translated from caps/nix/syscallz into
// github.com/moby/sys/capability + golang.org/x/sys/unix +
// github.com/seccomp/libseccomp-golang.
package sandbox

import (
	"fmt"

	"github.com/moby/sys/capability"
	"golang.org/x/sys/unix"
)

// emptyDir is the chroot jail target — an empty, otherwise useless
// directory a sandboxed child cannot escape far from, mirroring mod.rs's
// CHROOT constant.
const emptyDir = "/var/empty"

// Init performs the full hardening sequence: chroot, capability drop,
// seccomp allow-list install, in that order (mod.rs's `init`).
//
// requireSandbox mirrors core.require_sandbox (SPEC_FULL.md §9 design
// note): when true, a chroot failure is fatal instead of merely logged,
// closing the original's "sandboxing is advisory" gap for operators who
// want a hard guarantee.
func Init(requireSandbox bool, warn func(string)) error {
	if err := unix.Chroot(emptyDir); err != nil {
		if requireSandbox {
			return fmt.Errorf("failed to chroot to %s: %w", emptyDir, err)
		}
		if warn != nil {
			warn(fmt.Sprintf("failed to chroot to %s: %v", emptyDir, err))
		}
	} else {
		if err := unix.Chdir("/"); err != nil {
			return fmt.Errorf("failed to chdir after chroot: %w", err)
		}
	}

	if err := DropCapabilities(); err != nil {
		return err
	}

	return InstallSeccompFilter()
}

// DropCapabilities clears every capability set, removing any privilege the
// process needed only to set the sandbox up (mod.rs's `fasten_seatbelt`).
func DropCapabilities() error {
	caps, err := capability.NewPid2(0)
	if err != nil {
		return fmt.Errorf("failed to open process capabilities: %w", err)
	}
	if err := caps.Load(); err != nil {
		return fmt.Errorf("failed to load process capabilities: %w", err)
	}

	caps.Clear(capability.CAPS | capability.BOUNDING | capability.AMBIENT)

	if err := caps.Apply(capability.CAPS | capability.BOUNDING | capability.AMBIENT); err != nil {
		return fmt.Errorf("failed to clear capabilities: %w", err)
	}
	return nil
}
