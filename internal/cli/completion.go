package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/pkg/store"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for casperflow.

Besides commands and flags, the scripts complete the names of stored blocks
(library show, export, rm) and designs (design load, rm) by querying the
configured store.

  $ source <(casperflow completion bash)
  $ casperflow completion zsh > "${fpath[1]}/_casperflow"
  $ casperflow completion fish > ~/.config/fish/completions/casperflow.fish
  PS> casperflow completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
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

// completeStored returns a completion function listing stored names. list
// picks blocks or designs from the library. Names already on the command
// line are not offered again; single is for commands taking one name.
func (c *CLI) completeStored(single bool, list func(*store.Library, context.Context) ([]string, error)) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if single && len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		// Completion skips the persistent pre-run, so load --config here.
		if c.config == nil {
			if err := c.loadConfig(); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		lib, err := c.openLibrary(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer lib.Store().Close()

		names, err := list(lib, ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		for _, name := range names {
			if strings.HasPrefix(name, toComplete) && !slices.Contains(args, name) {
				out = append(out, name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func (c *CLI) completeBlocks(single bool) cobra.CompletionFunc {
	return c.completeStored(single, (*store.Library).Blocks)
}

func (c *CLI) completeDesigns(single bool) cobra.CompletionFunc {
	return c.completeStored(single, (*store.Library).Designs)
}
