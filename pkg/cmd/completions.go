package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newCompletionsCmd generates shell completion scripts, grounded on
// cobra's own completion subcommand convention (the same one its other
// adopters in the corpus expose); the original's args.rs had a
// Completions subcommand backed by clap's generator, which this mirrors
// one-for-one against cobra's equivalent.
func newCompletionsCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:       "completions <bash|zsh|fish|powershell>",
		Short:     "Generate a shell completion script",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletion(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell %q", args[0])
			}
		},
	}
}
