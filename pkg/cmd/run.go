package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/db"
	"github.com/kpcyrd/sn0int/pkg/engine"
	"github.com/kpcyrd/sn0int/pkg/ipc"
	"github.com/kpcyrd/sn0int/pkg/registry"
	"github.com/kpcyrd/sn0int/pkg/supervisor"
)

// sourceToFamily maps a module's declared Source onto the entity family
// `run` pulls its argument rows from (SPEC_FULL.md §4.9). Modules whose
// Source is "none", "keyring" or "notifications" take no row argument
// and are run exactly once.
func sourceToFamily(source engine.Source) (db.Family, bool) {
	switch source {
	case engine.SourceDomains:
		return db.FamilyDomain, true
	case engine.SourceSubdomains:
		return db.FamilySubdomain, true
	case engine.SourceSubdomainIPAddrs:
		return db.FamilySubdomainIpAddr, true
	case engine.SourceIPAddrs:
		return db.FamilyIpAddr, true
	case engine.SourceURLs:
		return db.FamilyUrl, true
	case engine.SourceEmails:
		return db.FamilyEmail, true
	case engine.SourcePhoneNumbers:
		return db.FamilyPhoneNumber, true
	case engine.SourceDevices:
		return db.FamilyDevice, true
	case engine.SourceNetworks:
		return db.FamilyNetwork, true
	case engine.SourceAccounts:
		return db.FamilyAccount, true
	case engine.SourceBreaches:
		return db.FamilyBreach, true
	case engine.SourceImages:
		return db.FamilyImage, true
	case engine.SourcePorts:
		return db.FamilyPort, true
	case engine.SourceNetblocks:
		return db.FamilyNetblock, true
	case engine.SourceCryptoAddrs:
		return db.FamilyCryptoAddr, true
	default:
		return "", false
	}
}

// moduleRef builds the ipc.ModuleRef a supervisor.Task carries, trimming
// mod.Meta down to the fields a sandboxed child actually needs off the
// wire (keyring namespaces it may request).
func moduleRef(mod *engineModule) (ipc.ModuleRef, error) {
	metaJSON, err := json.Marshal(map[string]interface{}{
		"keyring_access": mod.Meta.KeyringAccess,
		"keyring_ns":     mod.Meta.KeyringNS,
		"source":         string(mod.Meta.Source),
		"description":    mod.Meta.Description,
		"version":        mod.Meta.Version.String(),
		"stealth":        string(mod.Meta.Stealth),
		"license":        mod.Meta.License,
	})
	if err != nil {
		return ipc.ModuleRef{}, err
	}
	return ipc.ModuleRef{
		Author:   mod.Author,
		Name:     mod.Name,
		Source:   mod.Source,
		Metadata: metaJSON,
	}, nil
}

// engineModule is the subset of registry.Module that moduleRef needs.
type engineModule struct {
	Author string
	Name   string
	Source string
	Meta   engine.Metadata
}

func newRunCmd(app *App) *cobra.Command {
	var threads int
	var exitOnError bool
	var options []string

	cmd := &cobra.Command{
		Use:   "run <module> [filter...]",
		Short: "Run a module against the entities it targets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}
			mod, err := local.Lookup(args[0])
			if err != nil {
				return err
			}

			store, err := app.Store()
			if err != nil {
				return err
			}
			blobs, err := app.Blobs()
			if err != nil {
				return err
			}
			kr, err := app.Keyring()
			if err != nil {
				return err
			}

			ref, err := moduleRef(&engineModule{Author: mod.Author, Name: mod.Name, Source: mod.Source, Meta: mod.Meta})
			if err != nil {
				return err
			}

			modOptions := make(map[string]string, len(options))
			for _, kv := range options {
				key, value, ok := splitKV(kv)
				if !ok {
					return fmt.Errorf("invalid -o value %q, expected key=value", kv)
				}
				modOptions[key] = value
			}

			opts := supervisor.Options{
				Workers:     threads,
				ExitOnError: exitOnError,
				Verbose:     app.Verbose,
				Proxy:       app.Proxy,
				UserAgent:   app.UserAgent,
				ModOptions:  modOptions,
			}
			sup, err := supervisor.New(store, blobs, kr, app.Log, opts)
			if err != nil {
				return err
			}

			family, hasFamily := sourceToFamily(mod.Meta.Source)
			if !hasFamily {
				task := supervisor.Task{Module: ref, Arg: json.RawMessage("null"), Label: mod.Author + "/" + mod.Name}
				if err := sup.RunOne(context.Background(), task); err != nil {
					return err
				}
				fmt.Println("1 ok, 0 failed, 0 cancelled (of 1)")
				return nil
			}

			filter, err := db.ParseOptional(args[1:], columnSetFor(family))
			if err != nil {
				return err
			}
			rows, err := store.Filter(family, filter.AndScoped())
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("Nothing to do, no entities matched")
				return nil
			}

			tasks := make([]supervisor.Task, 0, len(rows))
			for _, row := range rows {
				arg, err := json.Marshal(row)
				if err != nil {
					return err
				}
				label := fmt.Sprintf("%s/%s(#%v)", mod.Author, mod.Name, row["id"])
				tasks = append(tasks, supervisor.Task{Module: ref, Arg: arg, Label: label})
			}

			summary, err := sup.RunAll(context.Background(), tasks)
			if err != nil {
				return err
			}
			fmt.Println(summary.String())
			return nil
		},
	}

	cmd.Flags().IntVarP(&threads, "threads", "j", 1, "number of modules to run concurrently")
	cmd.Flags().BoolVar(&exitOnError, "exit-on-error", false, "cancel remaining tasks after the first failure")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "module option as key=value")
	return cmd
}

// runModuleOnArg runs a single module once against an arbitrary JSON
// argument, used by `notify exec` where the argument is a notification
// rather than an entity row.
func runModuleOnArg(app *App, mod *registry.Module, arg interface{}, options []string) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	blobs, err := app.Blobs()
	if err != nil {
		return err
	}
	kr, err := app.Keyring()
	if err != nil {
		return err
	}

	ref, err := moduleRef(&engineModule{Author: mod.Author, Name: mod.Name, Source: mod.Source, Meta: mod.Meta})
	if err != nil {
		return err
	}

	modOptions := make(map[string]string, len(options))
	for _, kv := range options {
		key, value, ok := splitKV(kv)
		if !ok {
			return fmt.Errorf("invalid -o value %q, expected key=value", kv)
		}
		modOptions[key] = value
	}

	opts := supervisor.Options{
		Workers:    1,
		Verbose:    app.Verbose,
		Proxy:      app.Proxy,
		UserAgent:  app.UserAgent,
		ModOptions: modOptions,
	}
	sup, err := supervisor.New(store, blobs, kr, app.Log, opts)
	if err != nil {
		return err
	}

	argJSON, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	task := supervisor.Task{Module: ref, Arg: argJSON, Label: mod.Author + "/" + mod.Name}
	if err := sup.RunOne(context.Background(), task); err != nil {
		return err
	}
	fmt.Printf("Sent 1 notification with %s/%s\n", mod.Author, mod.Name)
	return nil
}

func splitKV(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// columnSetFor adapts db.AllColumns into the map[string]bool shape
// db.Parse expects.
func columnSetFor(family db.Family) map[string]bool {
	set := make(map[string]bool)
	for _, c := range db.AllColumns[family] {
		set[c] = true
	}
	return set
}
