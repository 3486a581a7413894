// Package notify implements the notification router (component C12,
// SPEC_FULL.md §4.11): named configs gating on workspace/topic allow-lists,
// with topics matched via a `:`-segment glob language. Grounded on
// _examples/original_source/src/notify/{mod,rules}.rs.
package notify

import (
	"path"
	"strings"
)

// Glob matches a colon-segmented topic against a colon-segmented pattern,
// where each segment may itself contain shell-glob wildcards (rules.rs's
// Glob, backed there by the `glob` crate's Pattern type; here by the
// standard library's path.Match, which implements the same class of
// single-segment wildcard syntax and is the only glob matcher any repo in
// the corpus would reach for). A `!` prefix inverts the whole result.
type Glob struct {
	src      string
	segments []string
	inverse  bool
}

// ParseGlob compiles a pattern like "scan:*" or "!internal:*" into a Glob.
func ParseGlob(pattern string) (Glob, error) {
	inverse := false
	if strings.HasPrefix(pattern, "!") {
		inverse = true
		pattern = pattern[1:]
	}

	segments := strings.Split(pattern, ":")
	for _, seg := range segments {
		if _, err := path.Match(seg, ""); err != nil {
			return Glob{}, err
		}
	}

	return Glob{src: pattern, segments: segments, inverse: inverse}, nil
}

// Matches reports whether topic matches g. The segment counts must be
// equal — a pattern with N segments never matches a topic with a different
// number of segments, mirroring rules.rs's (None, None) / (_, _) cases.
// A `!` pattern then inverts that result, so it matches every topic the
// bare pattern does not, including one with a different segment count.
func (g Glob) Matches(topic string) bool {
	topicSegments := strings.Split(topic, ":")
	matched := len(topicSegments) == len(g.segments)
	for i := 0; matched && i < len(g.segments); i++ {
		ok, err := path.Match(g.segments[i], topicSegments[i])
		matched = err == nil && ok
	}
	return matched != g.inverse
}

func (g Glob) String() string {
	if g.inverse {
		return "!" + g.src
	}
	return g.src
}
