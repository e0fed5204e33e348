package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphgraph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			MarginLeft(2)
)

// =============================================================================
// NodeListModel - Interactive graph browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing a glyph graph.
type NodeListModel struct {
	Graph  graph.Graph
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(g graph.Graph) NodeListModel {
	return NodeListModel{
		Graph:  g,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Graph) - 1)
		case "enter", "n":
			m.jumpToNeighbor()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped, and scrolls it into view.
func (m *NodeListModel) moveTo(i int) {
	if len(m.Graph) == 0 {
		return
	}
	m.Cursor = min(max(i, 0), len(m.Graph)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// jumpToNeighbor moves to the first neighbor after the current node,
// wrapping around to the first neighbor overall.
func (m *NodeListModel) jumpToNeighbor() {
	if len(m.Graph) == 0 {
		return
	}
	neighbors := m.Graph.Neighbors(m.Graph[m.Cursor].Name)
	if len(neighbors) == 0 {
		return
	}
	target := neighbors[0]
	for _, name := range neighbors {
		if m.index(name) > m.Cursor {
			target = name
			break
		}
	}
	m.moveTo(m.index(target))
}

func (m NodeListModel) index(name string) int {
	for i, n := range m.Graph {
		if n.Name == name {
			return i
		}
	}
	return -1
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Glyph Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ next neighbor  q quit"))
	b.WriteString("\n\n")

	if len(m.Graph) == 0 {
		b.WriteString(listDimStyle.Render("  (no glyphs)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Graph))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Graph[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		degree := len(m.Graph.Neighbors(n.Name))
		rows = append(rows, []string{cursor, n.Name, fmt.Sprintf("(%d, %d)", n.Center.X, n.Center.Y), fmt.Sprint(degree)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Glyph", "Center", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 0 || col == 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Render(), detailBoxStyle.Render(m.detail())))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph))))

	return b.String()
}

// detail describes the node under the cursor.
func (m NodeListModel) detail() string {
	n := m.Graph[m.Cursor]
	lines := []string{
		StyleTitle.Render(n.Name),
		"",
		detailLine("center", fmt.Sprintf("(%d, %d)", n.Center.X, n.Center.Y)),
		detailLine("outgoing", joinOrDash(n.Connections)),
		detailLine("incoming", joinOrDash(m.Graph.Incoming(n.Name))),
		detailLine("neighbors", joinOrDash(m.Graph.Neighbors(n.Name))),
	}
	return strings.Join(lines, "\n")
}

func detailLine(key, value string) string {
	return lipgloss.NewStyle().Foreground(colorGray).Width(10).Render(key) + " " + StyleValue.Render(value)
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// Command
// =============================================================================

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse a glyph graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			p := tea.NewProgram(NewNodeListModel(g), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
