// Package ratelimit implements the keyed token-bucket rate limiter
// host functions expose to scripts as `ratelimit_throttle(key, passes,
// per_ms)` (SPEC_FULL.md §4.5.4). Grounded on
// _examples/original_source/sn0int-std/src/ratelimits.rs.
package ratelimit

import (
	"sync"
	"time"
)

// Response is either Pass (the call may proceed immediately) or a Retry
// delay the caller must sleep before retrying.
type Response struct {
	Pass  bool
	Retry time.Duration
}

type bucket struct {
	passes []time.Time
}

func (b *bucket) pass(now time.Time, passes int, window time.Duration) Response {
	retain := now.Add(-window)
	kept := b.passes[:0]
	for _, t := range b.passes {
		if !t.Before(retain) {
			kept = append(kept, t)
		}
	}
	b.passes = kept

	if len(b.passes) >= passes {
		min := b.passes[0]
		for _, t := range b.passes[1:] {
			if t.Before(min) {
				min = t
			}
		}
		delay := window - now.Sub(min)
		if delay < 0 {
			delay = 0
		}
		return Response{Pass: false, Retry: delay}
	}

	b.passes = append(b.passes, now)
	return Response{Pass: true}
}

// Limiter is a process-wide set of independent per-key token buckets.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

func New() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket)}
}

// Throttle evicts timestamps older than `now - perMs`, then either admits
// the call (recording now) or reports how long the caller must wait,
// exactly as ratelimits.rs's Bucket::pass does.
func (l *Limiter) Throttle(key string, passes int, perMs time.Duration) Response {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}
	return b.pass(time.Now(), passes, perMs)
}
