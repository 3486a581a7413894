package sandbox

import "testing"

func TestAllowedSyscallsMatchesSpec(t *testing.T) {
	want := []string{
		"read", "write", "futex", "sigaltstack", "munmap", "openat", "fcntl",
		"uname", "close", "epoll_create1", "pipe2", "epoll_ctl",
		"sched_getaffinity", "socket", "connect", "epoll_wait", "getrandom",
		"bind", "ioctl", "sendto", "recvfrom", "getsockopt", "mmap",
		"mprotect", "clone", "set_robust_list", "prctl", "sched_yield",
		"setsockopt", "madvise", "nanosleep", "exit", "exit_group",
	}

	if len(allowedSyscalls) != len(want) {
		t.Fatalf("got %d syscalls, want %d", len(allowedSyscalls), len(want))
	}
	for i, name := range want {
		if allowedSyscalls[i] != name {
			t.Errorf("allowedSyscalls[%d] = %q, want %q", i, allowedSyscalls[i], name)
		}
	}
}
