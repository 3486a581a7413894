package notify

import "testing"

func mustGlob(t *testing.T, pattern string) Glob {
	t.Helper()
	g, err := ParseGlob(pattern)
	if err != nil {
		t.Fatalf("ParseGlob(%q): %v", pattern, err)
	}
	return g
}

func TestMatchTopicExact(t *testing.T) {
	g := mustGlob(t, "scan:domain")
	if !g.Matches("scan:domain") {
		t.Error("expected exact match")
	}
	if g.Matches("scan:subdomain") {
		t.Error("expected mismatch")
	}
}

func TestMatchTopicStartsWith(t *testing.T) {
	g := mustGlob(t, "scan:*")
	if !g.Matches("scan:domain") {
		t.Error("expected prefix match")
	}
	if g.Matches("report:domain") {
		t.Error("expected mismatch on first segment")
	}
}

func TestMatchTopicEndsWith(t *testing.T) {
	g := mustGlob(t, "*:domain")
	if !g.Matches("scan:domain") {
		t.Error("expected suffix match")
	}
	if g.Matches("scan:subdomain") {
		t.Error("expected mismatch on last segment")
	}
}

func TestMatchTopicOneWildcardOneSection(t *testing.T) {
	g := mustGlob(t, "*")
	if !g.Matches("scan") {
		t.Error("expected single-segment wildcard to match single-segment topic")
	}
}

func TestMatchTopicOneWildcardNotTwoSections(t *testing.T) {
	g := mustGlob(t, "*")
	if g.Matches("scan:domain") {
		t.Error("single-segment pattern must not match a two-segment topic")
	}
}

func TestMatchTopicTwoWildcardsTwoSections(t *testing.T) {
	g := mustGlob(t, "*:*")
	if !g.Matches("scan:domain") {
		t.Error("expected two-wildcard pattern to match two-segment topic")
	}
}

func TestMatchTopicManyWildcards(t *testing.T) {
	g := mustGlob(t, "*:*:*")
	if !g.Matches("scan:domain:example.com") {
		t.Error("expected three-wildcard pattern to match three-segment topic")
	}
	if g.Matches("scan:domain") {
		t.Error("expected mismatch on segment count")
	}
}

func TestMatchTopicEmptyFilter(t *testing.T) {
	g := mustGlob(t, "")
	if g.Matches("scan") {
		t.Error("empty pattern segment must not match a non-empty topic segment")
	}
}

func TestInverseMatch(t *testing.T) {
	g := mustGlob(t, "!internal:*")
	if g.Matches("internal:debug") {
		t.Error("expected inverse to flip a full match to false")
	}
	if !g.Matches("scan:domain") {
		t.Error("expected inverse to flip a non-match to true")
	}
}

func TestNoInverseMatch(t *testing.T) {
	g := mustGlob(t, "!foo:*")
	if !g.Matches("topic:hello-world") {
		t.Error("expected inverse to turn a segment mismatch into a match")
	}
}

func TestConfigMatchesWorkspaceAllowList(t *testing.T) {
	cfg := Config{
		Workspaces: []string{"default"},
		Topics:     []Glob{mustGlob(t, "scan:*")},
		Script:     "notify-desktop",
	}
	if !cfg.Matches("default", "scan:domain") {
		t.Error("expected match on allowed workspace and topic")
	}
	if cfg.Matches("other", "scan:domain") {
		t.Error("expected mismatch on disallowed workspace")
	}
	if cfg.Matches("default", "report:domain") {
		t.Error("expected mismatch on disallowed topic")
	}
}

func TestConfigEmptyAllowListsPassEverything(t *testing.T) {
	cfg := Config{Script: "notify-desktop"}
	if !cfg.Matches("any-workspace", "any:topic") {
		t.Error("expected empty allow-lists to pass any workspace/topic")
	}
}

func TestRouterRoutesOnlyMatchingConfigs(t *testing.T) {
	r := NewRouter(map[string]Config{
		"desktop": {
			Topics: []Glob{mustGlob(t, "scan:*")},
			Script: "notify-desktop",
		},
		"slack": {
			Topics: []Glob{mustGlob(t, "report:*")},
			Script: "notify-slack",
		},
	}, false)

	routes := r.Route("default", "scan:domain")
	if len(routes) != 1 || routes[0].ConfigName != "desktop" {
		t.Fatalf("expected exactly the desktop route, got %+v", routes)
	}
}

func TestRouterDryRunIsAdvisoryOnly(t *testing.T) {
	r := NewRouter(map[string]Config{
		"desktop": {Script: "notify-desktop"},
	}, true)

	routes := r.Route("default", "scan:domain")
	if len(routes) != 1 || !routes[0].DryRun {
		t.Fatalf("expected a single dry-run route, got %+v", routes)
	}
}
