package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/pkg/editor"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive module browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <design.json>",
		Short: "Browse the modules of a design interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := c.openDesign(args[0])
			if err != nil {
				return err
			}
			if len(g.Modules) == 0 {
				printInfo("%s has no modules", args[0])
				return nil
			}
			_, err = tea.NewProgram(NewModuleBrowserModel(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// ModuleBrowserModel - Interactive module inspection
// =============================================================================

// ModuleBrowserModel is the bubbletea model listing a snapshot's modules
// with the ports and connections of the one under the cursor.
type ModuleBrowserModel struct {
	Graph  editor.Graph
	Cursor int
	Height int
	Offset int

	labels  map[int]string
	drivers map[int]int   // input pin id -> output pin id
	fanout  map[int][]int // output pin id -> input pin ids
}

// NewModuleBrowserModel creates a browser over g.
func NewModuleBrowserModel(g editor.Graph) ModuleBrowserModel {
	m := ModuleBrowserModel{
		Graph:   g,
		Height:  10,
		labels:  portLabels(g),
		drivers: make(map[int]int, len(g.Wires)),
		fanout:  make(map[int][]int),
	}
	for _, w := range g.Wires {
		m.drivers[w.X] = w.Y
		m.fanout[w.Y] = append(m.fanout[w.Y], w.X)
	}
	return m
}

func (m ModuleBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ModuleBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Graph.Modules)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Graph.Modules) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = (msg.Height - 12) / 2
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m ModuleBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Modules"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Graph.Modules))
	for i := m.Offset; i < end; i++ {
		mod := m.Graph.Modules[i]
		line := fmt.Sprintf("%-4d %-20s %s", mod.ID, mod.Name,
			listDimStyle.Render(fmt.Sprintf("%d in · %d out", len(mod.Inputs), len(mod.Outputs))))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.Cursor < len(m.Graph.Modules) {
		b.WriteString("\n")
		b.WriteString(m.portTable(m.Graph.Modules[m.Cursor]))
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Modules))))

	return b.String()
}

// portTable shows each port of mod with what it connects to.
func (m ModuleBrowserModel) portTable(mod editor.Module) string {
	var rows [][]string
	for _, p := range mod.Inputs {
		peer := "—"
		if drv, ok := m.drivers[p.ID]; ok {
			peer = "← " + m.labels[drv]
		}
		rows = append(rows, []string{"in", p.Name, p.Kind.String(), peer})
	}
	for _, p := range mod.Outputs {
		peer := "—"
		if sinks := m.fanout[p.ID]; len(sinks) > 0 {
			names := make([]string, len(sinks))
			for i, s := range sinks {
				names[i] = m.labels[s]
			}
			peer = "→ " + strings.Join(names, ", ")
		}
		rows = append(rows, []string{"out", p.Name, p.Kind.String(), peer})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Port", "Kind", "Connected").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 2:
				return StyleDim
			case col == 3 && rows[row][3] == "—":
				return StyleWarning
			}
			return StyleValue
		}).
		Render()
}
