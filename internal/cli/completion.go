package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts. Operation names
// for "layout" complete dynamically through cobra's __complete command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for nodedesign.

  bash:        source <(nodedesign completion bash)
  zsh:         nodedesign completion zsh > "${fpath[1]}/_nodedesign"
  fish:        nodedesign completion fish | source
  powershell:  nodedesign completion powershell | Out-String | Invoke-Expression

Completion covers subcommands, flags and layout operation names.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
