package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/paths"
)

// newPathsCmd prints every resolved on-disk location. Has no direct
// counterpart in the original source; XDG base directory discovery is
// opaque enough in day-to-day use that surfacing it directly is worth
// doing even without a prior command to ground it on.
func newPathsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show resolved data, cache and config paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPath := func(label string, fn func() (string, error)) error {
				p, err := fn()
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\n", label, p)
				return nil
			}

			for _, p := range []struct {
				label string
				fn    func() (string, error)
			}{
				{"data", paths.DataDir},
				{"cache", paths.CacheDir},
				{"config", paths.ConfigDir},
				{"modules", paths.ModuleDir},
				{"config-file", paths.ConfigFile},
				{"keyring", paths.KeyringPath},
				{"history", paths.HistoryPath},
				{"autoupdate", paths.AutoupdatePath},
				{"geoip-city", paths.GeoIPCityDB},
				{"geoip-asn", paths.GeoIPASNDB},
				{"public-suffix-list", paths.PublicSuffixList},
			} {
				if err := printPath(p.label, p.fn); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
