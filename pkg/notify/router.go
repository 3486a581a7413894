package notify

import (
	"fmt"
)

// Notification is the one-argument object handed to a matched module
// (spec §4.11): {subject, body?}.
type Notification struct {
	Subject string  `json:"subject"`
	Body    *string `json:"body,omitempty"`
}

// Config is a single named notification route: run Script (with Options)
// whenever a notification's workspace and topic both pass their
// respective allow-lists. An empty allow-list passes everything, matching
// mod.rs's apply_rule ("if filter is empty, skip the check").
type Config struct {
	Name       string
	Workspaces []string
	Topics     []Glob
	Script     string
	Options    map[string]string
}

// Matches reports whether c should fire for a notification seen in
// workspace about topic.
func (c Config) Matches(workspace, topic string) bool {
	if !allowListPasses(c.Workspaces, workspace) {
		return false
	}
	return topicAllowListPasses(c.Topics, topic)
}

func allowListPasses(allow []string, value string) bool {
	if len(allow) == 0 {
		return true
	}
	for _, v := range allow {
		if v == value {
			return true
		}
	}
	return false
}

func topicAllowListPasses(allow []Glob, topic string) bool {
	if len(allow) == 0 {
		return true
	}
	for _, g := range allow {
		if g.Matches(topic) {
			return true
		}
	}
	return false
}

// Route is one router decision, used both for real execution and for
// `dry_run` reporting.
type Route struct {
	ConfigName string
	Script     string
	Options    map[string]string
	DryRun     bool
}

// Router holds the full set of named notification configs (spec §4.11)
// and decides which ones fire for a given event.
type Router struct {
	Configs map[string]Config
	DryRun  bool
}

func NewRouter(configs map[string]Config, dryRun bool) *Router {
	return &Router{Configs: configs, DryRun: dryRun}
}

// Route returns every Config whose allow-lists accept (workspace, topic),
// in Route form, ready for the caller to either execute or log as a
// dry-run hit (mod.rs's run_router loop, generalized into pure data
// instead of directly dispatching a module run).
func (r *Router) Route(workspace, topic string) []Route {
	var routes []Route
	for name, cfg := range r.Configs {
		if cfg.Matches(workspace, topic) {
			routes = append(routes, Route{
				ConfigName: name,
				Script:     cfg.Script,
				Options:    cfg.Options,
				DryRun:     r.DryRun,
			})
		}
	}
	return routes
}

func (r Route) String() string {
	if r.DryRun {
		return fmt.Sprintf("%s -> %s (dry-run)", r.ConfigName, r.Script)
	}
	return fmt.Sprintf("%s -> %s", r.ConfigName, r.Script)
}
