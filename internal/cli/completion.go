package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	gio "github.com/matzehuels/glyphgraph/pkg/io"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
)

// imageExtensions are offered when completing image arguments.
var imageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tiff", "webp"}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for glyphgraph.

  $ source <(glyphgraph completion bash)
  $ glyphgraph completion zsh > "${fpath[1]}/_glyphgraph"
  $ glyphgraph completion fish > ~/.config/fish/completions/glyphgraph.fish
  PS> glyphgraph completion powershell | Out-String | Invoke-Expression

Output formats and image files are completed for extract, render and
quantize.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
}

// registerCompletions attaches argument and flag completions to the
// subcommands of root.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "extract", "detect", "grid":
			cmd.ValidArgsFunction = fileExtensions(imageExtensions...)
		case "quantize":
			cmd.ValidArgsFunction = fileExtensions(append(imageExtensions, "json", "yaml")...)
		case "render", "inspect":
			cmd.ValidArgsFunction = fileExtensions("json", "yaml")
		}

		if f := cmd.Flags().Lookup("format"); f != nil {
			formats := pipeline.ValidFormats
			if cmd.Name() == "quantize" {
				formats = gio.ValidFormats
			}
			_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion(formats))
		}
	}
}

func fileExtensions(exts ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// formatCompletion completes the last element of a comma-separated format
// list, skipping formats already given.
func formatCompletion(valid map[string]bool) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		done := pipeline.ParseFormats(toComplete)
		prefix := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix = toComplete[:i+1]
			done = pipeline.ParseFormats(toComplete[:i])
		}

		var out []cobra.Completion
		for f := range valid {
			if !slices.Contains(done, f) {
				out = append(out, prefix+f)
			}
		}
		slices.Sort(out)
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
