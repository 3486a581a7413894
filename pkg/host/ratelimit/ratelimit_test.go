package ratelimit

import (
	"testing"
	"time"
)

func TestBucketPassesUnderLimit(t *testing.T) {
	b := &bucket{}
	now := time.Unix(1000, 0)
	r := b.pass(now, 2, time.Second)
	if !r.Pass {
		t.Fatal("expected first call to pass")
	}
	r = b.pass(now, 2, time.Second)
	if !r.Pass {
		t.Fatal("expected second call within limit to pass")
	}
}

func TestBucketRetriesOverLimit(t *testing.T) {
	b := &bucket{}
	now := time.Unix(1000, 0)
	b.pass(now, 1, time.Second)

	r := b.pass(now, 1, time.Second)
	if r.Pass {
		t.Fatal("expected a second call within the same window to be throttled")
	}
	if r.Retry != time.Second {
		t.Errorf("got retry %v, want 1s", r.Retry)
	}
}

func TestBucketEvictsExpiredTimestamps(t *testing.T) {
	b := &bucket{}
	now := time.Unix(1000, 0)
	b.pass(now, 1, time.Second)

	later := now.Add(2 * time.Second)
	r := b.pass(later, 1, time.Second)
	if !r.Pass {
		t.Fatal("expected the expired timestamp to be evicted, admitting a new pass")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Throttle("a", 1, time.Second).Pass {
		t.Fatal("expected key a's first call to pass")
	}
	if !l.Throttle("b", 1, time.Second).Pass {
		t.Fatal("expected key b's first call to pass independently of key a")
	}
	if l.Throttle("a", 1, time.Second).Pass {
		t.Fatal("expected key a's second call within the window to be throttled")
	}
}
