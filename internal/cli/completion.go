package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts for the
// protouml subcommands and their flags.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(*cobra.Command) error{
		"bash": func(root *cobra.Command) error { return root.GenBashCompletion(os.Stdout) },
		"zsh":  func(root *cobra.Command) error { return root.GenZshCompletion(os.Stdout) },
		"fish": func(root *cobra.Command) error { return root.GenFishCompletion(os.Stdout, true) },
		"powershell": func(root *cobra.Command) error {
			return root.GenPowerShellCompletionWithDesc(os.Stdout)
		},
	}

	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for bash, zsh, fish, or powershell.

Load it directly into the current shell:

  $ source <(protouml completion bash)
  $ protouml completion fish | source

or install it once for new sessions:

  $ protouml completion bash > /etc/bash_completion.d/protouml
  $ protouml completion zsh > "${fpath[1]}/_protouml"
  $ protouml completion fish > ~/.config/fish/completions/protouml.fish

For powershell, add the script to your profile:

  PS> protouml completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := generators[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q", args[0])
			}
			return gen(cmd.Root())
		},
	}
}
