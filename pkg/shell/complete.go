package shell

import (
	"github.com/chzyer/readline"
)

var topLevelCommands = []string{
	"activity", "add", "autonoscope", "autoscope", "back", "cal", "delete",
	"export", "fsck", "help", "keyring", "mod", "noscope", "notify", "paths",
	"pkg", "rescope", "run", "scope", "select", "set", "stats", "target",
	"use", "workspace", "exit", "quit",
}

var entityFamilies = []string{
	"domain", "subdomain", "subdomain-ipaddr", "ipaddr", "url", "email",
	"phonenumber", "device", "network", "network-device", "account",
	"breach", "image", "port", "netblock", "cryptoaddr",
}

// newCompleter builds a dynamic readline completer, grounded on
// shell/complete.rs's CmdCompleter: top-level words at the start of the
// line, entity family names as the second word of family-grouped
// commands, and installed module names after `use`/`run`.
func newCompleter(opts Options) readline.AutoCompleter {
	return readline.NewPrefixCompleter(buildItems(opts)...)
}

func buildItems(opts Options) []readline.PrefixCompleterInterface {
	familyItems := func() []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, 0, len(entityFamilies))
		for _, f := range entityFamilies {
			items = append(items, readline.PcItem(f))
		}
		return items
	}

	moduleItems := func() []readline.PrefixCompleterInterface {
		var names []string
		if opts.ModuleNames != nil {
			names = opts.ModuleNames()
		}
		items := make([]readline.PrefixCompleterInterface, 0, len(names))
		for _, n := range names {
			items = append(items, readline.PcItem(n))
		}
		return items
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(topLevelCommands))
	for _, c := range topLevelCommands {
		switch c {
		case "select", "delete", "scope", "noscope", "autoscope", "autonoscope":
			items = append(items, readline.PcItem(c, familyItems()...))
		case "use", "run":
			items = append(items, readline.PcItem(c, moduleItems()...))
		default:
			items = append(items, readline.PcItem(c))
		}
	}
	return items
}
