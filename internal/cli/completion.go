package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// formatNames lists the output formats in the order they are offered.
var formatNames = []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for taskvis.

To load completions:

Bash:
  $ source <(taskvis completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ taskvis completion bash > /etc/bash_completion.d/taskvis
  # macOS:
  $ taskvis completion bash > $(brew --prefix)/etc/bash_completion.d/taskvis

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ taskvis completion zsh > "${fpath[1]}/_taskvis"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ taskvis completion fish | source

  # To load completions for each session, execute once:
  $ taskvis completion fish > ~/.config/fish/completions/taskvis.fish

PowerShell:
  PS> taskvis completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> taskvis completion powershell > taskvis.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
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

// completeCSV offers only .csv files for a command's positional argument.
func completeCSV(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"csv"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last entry of a comma-separated format
// list, skipping formats already given.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, given := "", []string(nil)
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		given = strings.Split(toComplete[:i], ",")
	}

	var out []string
	for _, f := range formatNames {
		if !slices.Contains(given, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// registerChartCompletions completes the enumerated chart flags.
func registerChartCompletions(cmd *cobra.Command) {
	cmd.RegisterFlagCompletionFunc("overflow", cobra.FixedCompletions(
		[]string{timeline.OverflowFail.String(), timeline.OverflowOverlap.String()},
		cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("select", cobra.FixedCompletions(
		[]string{timeline.SelectEarliestFree.String(), timeline.SelectFirstFree.String()},
		cobra.ShellCompDirectiveNoFileComp))
}
