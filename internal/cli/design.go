package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/pkg/editor"
	errs "github.com/matzehuels/casperflow/pkg/errors"
	pkgio "github.com/matzehuels/casperflow/pkg/io"
	"github.com/matzehuels/casperflow/pkg/netlist"
)

// designCommand creates the design command.
func (c *CLI) designCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Check, inspect and store design files",
	}

	cmd.AddCommand(c.designCheckCommand())
	cmd.AddCommand(c.designShowCommand())
	cmd.AddCommand(c.designListCommand())
	cmd.AddCommand(c.designSaveCommand())
	cmd.AddCommand(c.designLoadCommand())
	cmd.AddCommand(c.designRemoveCommand())

	return cmd
}

// openDesign loads the design file at path into a fresh editor and takes a
// snapshot of it.
func (c *CLI) openDesign(path string) (*editor.Editor, editor.Graph, error) {
	d, err := pkgio.ImportDesign(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, editor.Graph{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "design %s", path)
	case err != nil:
		return nil, editor.Graph{}, errs.Wrap(errs.ErrCodeInvalidDesign, err, "design %s", path)
	}

	ed := editor.New(editor.Options{Logger: c.Logger})
	if err := ed.ImportDesign(d); err != nil {
		return nil, editor.Graph{}, err
	}
	g, err := ed.Snapshot()
	if err != nil {
		return nil, editor.Graph{}, err
	}
	return ed, g, nil
}

// floatingInputs lists "module.pin" for every input without a driver.
func floatingInputs(g editor.Graph) []string {
	driven := make(map[int]bool, len(g.Wires))
	for _, w := range g.Wires {
		driven[w.X] = true
	}
	var out []string
	for _, m := range g.Modules {
		for _, p := range m.Inputs {
			if !driven[p.ID] {
				out = append(out, m.Name+"."+p.Name)
			}
		}
	}
	return out
}

// badIdentifiers lists every module and pin name that cannot be emitted
// as an HDL identifier.
func badIdentifiers(g editor.Graph) []string {
	var out []string
	for _, m := range g.Modules {
		if errs.ValidateIdentifier(m.Name) != nil {
			out = append(out, strconv.Quote(m.Name))
		}
		for _, p := range slices.Concat(m.Inputs, m.Outputs) {
			if errs.ValidateIdentifier(p.Name) != nil {
				out = append(out, m.Name+"."+strconv.Quote(p.Name))
			}
		}
	}
	return out
}

func pinCount(g editor.Graph) int {
	n := 0
	for _, m := range g.Modules {
		n += len(m.Inputs) + len(m.Outputs)
	}
	return n
}

// designCheckCommand creates the "design check" subcommand.
func (c *CLI) designCheckCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check <design.json>",
		Short: "Load a design and verify every netlist invariant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			ed, g, err := c.openDesign(args[0])
			if err != nil {
				return err
			}
			if err := ed.View(func(n *netlist.Netlist) error { return n.Validate() }); err != nil {
				return errs.FromNetlist(err)
			}
			prog.done("Checked " + args[0])

			printSuccess("%s is a valid design", args[0])
			printStats(len(g.Modules), pinCount(g), len(g.Wires))

			floating := floatingInputs(g)
			for _, name := range floating {
				printWarning("input %s is not driven", name)
			}
			names := badIdentifiers(g)
			for _, name := range names {
				printWarning("%s is not a valid identifier", name)
			}
			if !strict {
				return nil
			}
			if len(floating) > 0 {
				return fmt.Errorf("%d undriven inputs", len(floating))
			}
			if len(names) > 0 {
				return errs.New(errs.ErrCodeInvalidName, "%d names are not valid identifiers", len(names))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on undriven inputs or names that are not identifiers")
	return cmd
}

// designShowCommand creates the "design show" subcommand.
func (c *CLI) designShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <design.json>",
		Short: "Print the modules and wires of a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := c.openDesign(args[0])
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(args[0]))
			fmt.Println(moduleTable(g))
			if len(g.Wires) > 0 {
				fmt.Println(wireTable(g))
			}
			printStats(len(g.Modules), pinCount(g), len(g.Wires))
			return nil
		},
	}
}

func styledTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleNumber
			case col == 1:
				return StyleHighlight
			}
			return StyleValue
		}).
		Render()
}

// moduleTable renders one row per module.
func moduleTable(g editor.Graph) string {
	rows := make([][]string, len(g.Modules))
	for i, m := range g.Modules {
		rows[i] = []string{
			strconv.Itoa(m.ID),
			m.Name,
			fmt.Sprintf("%g, %g", m.Position[0], m.Position[1]),
			portNames(m.Inputs),
			portNames(m.Outputs),
		}
	}
	return styledTable([]string{"#", "Module", "Position", "Inputs", "Outputs"}, rows)
}

// wireTable renders one row per wire as driver → input.
func wireTable(g editor.Graph) string {
	names := portLabels(g)
	rows := make([][]string, len(g.Wires))
	for i, w := range g.Wires {
		rows[i] = []string{strconv.Itoa(w.ID), names[w.Y], names[w.X]}
	}
	return styledTable([]string{"#", "From", "To"}, rows)
}

// portLabels maps pin snapshot ids to "module.pin".
func portLabels(g editor.Graph) map[int]string {
	names := make(map[int]string)
	for _, m := range g.Modules {
		for _, p := range m.Inputs {
			names[p.ID] = m.Name + "." + p.Name
		}
		for _, p := range m.Outputs {
			names[p.ID] = m.Name + "." + p.Name
		}
	}
	return names
}

func portNames(ports []editor.Port) string {
	if len(ports) == 0 {
		return "—"
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// designListCommand creates the "design list" subcommand.
func (c *CLI) designListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List designs stored in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			names, err := lib.Designs(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No stored designs")
				printNextStep("Store one", appName+" design save <name> design.json")
				return nil
			}
			for _, name := range names {
				printInfo("%s", StyleHighlight.Render(name))
			}
			return nil
		},
	}
}

// designSaveCommand creates the "design save" subcommand.
func (c *CLI) designSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <design.json>",
		Short: "Check a design file and store it in the library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ed, g, err := c.openDesign(args[1])
			if err != nil {
				return err
			}
			d, err := ed.ExportDesign()
			if err != nil {
				return err
			}

			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			if err := lib.PutDesign(ctx, args[0], d); err != nil {
				return err
			}
			printSuccess("Stored design %s", StyleHighlight.Render(args[0]))
			printStats(len(g.Modules), pinCount(g), len(g.Wires))
			return nil
		},
	}
}

// designLoadCommand creates the "design load" subcommand.
func (c *CLI) designLoadCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:               "load <name>",
		Short:             "Write a stored design to a file or stdout",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDesigns(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			d, err := lib.Design(ctx, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return pkgio.WriteDesign(d, os.Stdout)
			}
			if err := pkgio.ExportDesign(d, output); err != nil {
				return err
			}
			printSuccess("Loaded design %s", args[0])
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// designRemoveCommand creates the "design rm" subcommand.
func (c *CLI) designRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <name>...",
		Aliases:           []string{"remove"},
		Short:             "Remove stored designs",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeDesigns(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			for _, name := range args {
				if err := lib.DeleteDesign(ctx, name); err != nil {
					return err
				}
				printSuccess("Removed design %s", name)
			}
			return nil
		},
	}
}
