package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for treemap.

To load completions:

Bash:
  $ source <(treemap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ treemap completion bash > /etc/bash_completion.d/treemap
  # macOS:
  $ treemap completion bash > $(brew --prefix)/etc/bash_completion.d/treemap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ treemap completion zsh > "${fpath[1]}/_treemap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ treemap completion fish | source

  # To load completions for each session, execute once:
  $ treemap completion fish > ~/.config/fish/completions/treemap.fish

PowerShell:
  PS> treemap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> treemap completion powershell > treemap.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeDataset offers the preset names for the dataset argument. Input
// that matches no preset falls back to file completion.
func completeDataset(_ *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []cobra.Completion
	for _, p := range source.Presets {
		if strings.HasPrefix(p.Name, strings.ToLower(toComplete)) {
			out = append(out, cobra.CompletionWithDesc(p.Name, p.Title))
		}
	}
	if len(out) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated --format
// list with the formats the selected --type can produce.
func completeFormats(cmd *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	vizType, _ := cmd.Flags().GetString("type")
	valid, ok := pipeline.ValidFormats[vizType]
	if !ok {
		valid = pipeline.ValidFormats[pipeline.DefaultVizType]
	}

	head, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		head, last = toComplete[:i+1], toComplete[i+1:]
	}
	chosen := parseFormats(head)

	var out []cobra.Completion
	for _, f := range valid {
		if strings.HasPrefix(f, last) && !slices.Contains(chosen, f) {
			out = append(out, head+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}
