package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/paths"
	"github.com/kpcyrd/sn0int/pkg/registry"
)

// newPkgCmd groups the module registry subcommands (component C10,
// SPEC_FULL.md §4.12), grounded on
// _examples/original_source/src/cmd/pkg_cmd.rs's SubCommand enum.
func newPkgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pkg",
		Aliases: []string{"mod"},
		Short:   "Manage installed modules",
	}

	cmd.AddCommand(
		newPkgListCmd(app),
		newPkgInstallCmd(app),
		newPkgSearchCmd(app),
		newPkgUpdateCmd(app),
		newPkgUninstallCmd(app),
		newPkgQuickstartCmd(app),
		newPkgReloadCmd(app),
	)
	return cmd
}

func newPkgListCmd(app *App) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}
			for _, mod := range local.List() {
				if pattern != "" {
					if ok, _ := path.Match(pattern, mod.Name); !ok {
						continue
					}
				}
				fmt.Printf("%s/%s %s (%s) [%s]\n", mod.Author, mod.Name, mod.Meta.Version.String(), mod.Meta.Stealth, mod.Meta.Source)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "only list modules whose name matches this glob")
	return cmd
}

func newPkgInstallCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install <author/name> [version]",
		Short: "Install a module from the registry",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			author, name, ok := splitAuthorName(args[0])
			if !ok {
				return fmt.Errorf("module reference must be author/name")
			}
			version := ""
			if len(args) == 2 {
				version = args[1]
			}

			client, err := app.RegistryClient()
			if err != nil {
				return err
			}
			if version == "" {
				info, err := client.Info(author, name)
				if err != nil {
					return fmt.Errorf("failed to look up %s/%s: %w", author, name, err)
				}
				version = info.Latest
			}

			source, err := client.Download(author, name, version)
			if err != nil {
				return fmt.Errorf("failed to download %s/%s %s: %w", author, name, version, err)
			}

			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}
			if err := local.Install(author, name, source); err != nil {
				return err
			}
			fmt.Printf("Installed %s/%s %s\n", author, name, version)
			return nil
		},
	}
}

func newPkgSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.RegistryClient()
			if err != nil {
				return err
			}
			results, err := client.Search(args[0])
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s/%s %s - %s\n", r.Author, r.Name, r.Latest, r.Description)
			}
			return nil
		},
	}
}

func newPkgUpdateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update every installed module to its latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}
			client, err := app.RegistryClient()
			if err != nil {
				return err
			}

			updated := 0
			for _, mod := range local.List() {
				info, err := client.Info(mod.Author, mod.Name)
				if err != nil {
					app.Log.WithError(err).Warnf("failed to check %s/%s", mod.Author, mod.Name)
					continue
				}
				if info.Latest == "" || info.Latest == mod.Meta.Version.String() {
					continue
				}

				source, err := client.Download(mod.Author, mod.Name, info.Latest)
				if err != nil {
					app.Log.WithError(err).Warnf("failed to download %s/%s %s", mod.Author, mod.Name, info.Latest)
					continue
				}
				if err := local.Install(mod.Author, mod.Name, source); err != nil {
					return err
				}
				fmt.Printf("Updated %s/%s: %s -> %s\n", mod.Author, mod.Name, mod.Meta.Version.String(), info.Latest)
				updated++
			}
			if updated == 0 {
				fmt.Println("Everything is up to date")
			}
			return nil
		},
	}
}

func newPkgUninstallCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <author/name>",
		Short: "Remove an installed module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			author, name, ok := splitAuthorName(args[0])
			if !ok {
				return fmt.Errorf("module reference must be author/name")
			}
			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}
			if err := local.Uninstall(author, name); err != nil {
				return err
			}
			fmt.Printf("Uninstalled %s/%s\n", author, name)
			return nil
		},
	}
}

func newPkgQuickstartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "Install the curated starter module set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.RegistryClient()
			if err != nil {
				return err
			}
			starter, err := client.Quickstart()
			if err != nil {
				return err
			}

			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}

			installed := 0
			for _, mod := range starter {
				if _, err := local.Lookup(mod.Author + "/" + mod.Name); err == nil {
					continue
				}
				source, err := client.Download(mod.Author, mod.Name, mod.Latest)
				if err != nil {
					app.Log.WithError(err).Warnf("failed to download %s/%s", mod.Author, mod.Name)
					continue
				}
				if err := local.Install(mod.Author, mod.Name, source); err != nil {
					return err
				}
				fmt.Printf("Installed %s/%s %s\n", mod.Author, mod.Name, mod.Latest)
				installed++
			}
			fmt.Printf("Installed %d modules\n", installed)
			return nil
		},
	}
}

func newPkgReloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-index installed modules from disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := paths.ModuleDir()
			if err != nil {
				return err
			}
			local, err := registry.OpenLocal(dir)
			if err != nil {
				return err
			}
			app.local = local
			fmt.Printf("Reloaded %d modules\n", len(local.List()))
			return nil
		},
	}
}

func splitAuthorName(ref string) (string, string, bool) {
	idx := strings.Index(ref, "/")
	if idx < 0 {
		return "", "", false
	}
	return ref[:idx], ref[idx+1:], true
}
