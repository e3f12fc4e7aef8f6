package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/casperflow/pkg/io"
)

// libraryCommand creates the library management command.
func (c *CLI) libraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage the library of reusable blocks",
	}

	cmd.AddCommand(c.libraryListCommand())
	cmd.AddCommand(c.libraryAddCommand())
	cmd.AddCommand(c.libraryShowCommand())
	cmd.AddCommand(c.libraryExportCommand())
	cmd.AddCommand(c.libraryRemoveCommand())

	return cmd
}

// libraryListCommand creates the "library list" subcommand.
func (c *CLI) libraryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			names, err := lib.Blocks(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("Library is empty")
				printNextStep("Add a block", appName+" library add block.json")
				return nil
			}

			blocks := make([]pkgio.LibraryModule, 0, len(names))
			for _, name := range names {
				lm, err := lib.Block(ctx, name)
				if err != nil {
					printError("%s: %v", name, err)
					continue
				}
				blocks = append(blocks, lm)
			}
			fmt.Println(blockTable(blocks))
			printDetail("%d blocks in %s store", len(blocks), lib.Store().Backend())
			return nil
		},
	}
}

// blockTable renders blocks as a bordered table.
func blockTable(blocks []pkgio.LibraryModule) string {
	rows := make([][]string, len(blocks))
	for i, lm := range blocks {
		rows[i] = []string{lm.Name, strconv.Itoa(len(lm.Inputs)), strconv.Itoa(len(lm.Outputs)), portSummary(lm)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Block", "In", "Out", "Ports").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 3:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// portSummary formats a block's ports as "A:wire, B:wire → Y:wire".
func portSummary(lm pkgio.LibraryModule) string {
	return joinPins(lm.Inputs) + " → " + joinPins(lm.Outputs)
}

func joinPins(pins []pkgio.LibraryPin) string {
	if len(pins) == 0 {
		return "—"
	}
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = p.Name + ":" + p.Kind.String()
	}
	return strings.Join(parts, ", ")
}

// libraryAddCommand creates the "library add" subcommand.
func (c *CLI) libraryAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <block.json>...",
		Short: "Store block files in the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			for _, path := range args {
				lm, err := pkgio.ImportLibrary(path)
				if err != nil {
					return err
				}
				if err := lib.PutBlock(ctx, lm); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				printSuccess("Stored %s", StyleHighlight.Render(lm.Name))
				printDetail("%s", portSummary(lm))
			}
			return nil
		},
	}
}

// libraryShowCommand creates the "library show" subcommand.
func (c *CLI) libraryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <name>",
		Short:             "Print a stored block as JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeBlocks(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			lm, err := lib.Block(ctx, args[0])
			if err != nil {
				return err
			}
			return pkgio.WriteLibrary(lm, os.Stdout)
		},
	}
}

// libraryExportCommand creates the "library export" subcommand.
func (c *CLI) libraryExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:               "export <name>",
		Short:             "Write a stored block to a file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeBlocks(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			lm, err := lib.Block(ctx, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = lm.Name + ".json"
			}
			if err := pkgio.ExportLibrary(lm, output); err != nil {
				return err
			}
			printSuccess("Exported %s", lm.Name)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.json)")
	return cmd
}

// libraryRemoveCommand creates the "library rm" subcommand.
func (c *CLI) libraryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <name>...",
		Aliases:           []string{"remove"},
		Short:             "Remove blocks from the library",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeBlocks(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			for _, name := range args {
				if err := lib.DeleteBlock(ctx, name); err != nil {
					return err
				}
				printSuccess("Removed %s", name)
			}
			return nil
		},
	}
}
