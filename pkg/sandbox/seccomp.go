package sandbox

import (
	"fmt"

	seccomp "github.com/seccomp/libseccomp-golang"
)

// allowedSyscalls is the exact allow-list from
// _examples/original_source/src/sandbox/seccomp.rs's seccomp::init, one
// syscall name per Context::allow_syscall call there, in the same order.
// Anything not on this list is killed by the default seccomp action.
var allowedSyscalls = []string{
	"read",
	"write",
	"futex",
	"sigaltstack",
	"munmap",
	"openat",
	"fcntl",
	"uname",
	"close",
	"epoll_create1",
	"pipe2",
	"epoll_ctl",
	"sched_getaffinity",
	"socket",
	"connect",
	"epoll_wait",
	"getrandom",
	"bind",
	"ioctl",
	"sendto",
	"recvfrom",
	"getsockopt",
	"mmap",
	"mprotect",
	"clone",
	"set_robust_list",
	"prctl",
	"sched_yield",
	"setsockopt",
	"madvise",
	"nanosleep",
	"exit",
	"exit_group",
}

// InstallSeccompFilter builds a default-kill seccomp filter allowing only
// allowedSyscalls, then loads it into the kernel for the current process.
// Once loaded this cannot be relaxed — only a new, more restrictive filter
// can be added on top (the kernel enforces strictly additive stacking).
func InstallSeccompFilter() error {
	filter, err := seccomp.NewFilter(seccomp.ActKill)
	if err != nil {
		return fmt.Errorf("failed to create seccomp filter: %w", err)
	}
	defer filter.Release()

	for _, name := range allowedSyscalls {
		syscallID, err := seccomp.GetSyscallFromName(name)
		if err != nil {
			return fmt.Errorf("unknown syscall %q: %w", name, err)
		}
		if err := filter.AddRule(syscallID, seccomp.ActAllow); err != nil {
			return fmt.Errorf("failed to allow syscall %q: %w", name, err)
		}
	}

	if err := filter.Load(); err != nil {
		return fmt.Errorf("failed to load seccomp filter: %w", err)
	}
	return nil
}
