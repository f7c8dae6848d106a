package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ocif-layout.

To load completions:

Bash:
  $ source <(ocif-layout completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ocif-layout completion bash > /etc/bash_completion.d/ocif-layout
  # macOS:
  $ ocif-layout completion bash > $(brew --prefix)/etc/bash_completion.d/ocif-layout

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ocif-layout completion zsh > "${fpath[1]}/_ocif-layout"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ocif-layout completion fish | source

  # To load completions for each session, execute once:
  $ ocif-layout completion fish > ~/.config/fish/completions/ocif-layout.fish

PowerShell:
  PS> ocif-layout completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ocif-layout completion powershell > ocif-layout.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
