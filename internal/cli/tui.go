package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Interactive hierarchy browser
// =============================================================================

// treeRow is one visible line of the browser.
type treeRow struct {
	node  hierarchy.Node
	depth int
}

// TreeModel is the bubbletea model for browsing an enterprise. Enter or
// space expands a node, left collapses it, s picks it and quits.
type TreeModel struct {
	Enterprise *hierarchy.Enterprise
	Expanded   map[string]bool
	Cursor     int
	Offset     int
	Height     int
	Selected   hierarchy.Node

	rows []treeRow
}

// NewTreeModel creates a browser with the regions expanded.
func NewTreeModel(e *hierarchy.Enterprise) TreeModel {
	m := TreeModel{Enterprise: e, Expanded: make(map[string]bool), Height: 20}
	for _, r := range e.Regions {
		m.Expanded[r.ID] = true
	}
	m.rows = m.visibleRows()
	return m
}

func (m TreeModel) visibleRows() []treeRow {
	var rows []treeRow
	var add func(n hierarchy.Node, depth int)
	add = func(n hierarchy.Node, depth int) {
		rows = append(rows, treeRow{node: n, depth: depth})
		if !m.Expanded[n.NodeID()] {
			return
		}
		for _, c := range n.Children() {
			add(c, depth+1)
		}
	}
	for _, r := range m.Enterprise.Regions {
		add(r, 0)
	}
	return rows
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "enter", " ", "right", "l":
			if len(m.rows) > 0 {
				n := m.rows[m.Cursor].node
				if len(n.Children()) > 0 {
					m.Expanded[n.NodeID()] = !m.Expanded[n.NodeID()]
				}
			}
		case "left", "h":
			m.collapse()
		case "s":
			if len(m.rows) > 0 {
				m.Selected = m.rows[m.Cursor].node
				return m, tea.Quit
			}
		}
		m.rows = m.visibleRows()
		m.clamp()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.clamp()
	}
	return m, nil
}

// collapse closes the node under the cursor, or moves to its parent when
// it is already closed.
func (m *TreeModel) collapse() {
	if len(m.rows) == 0 {
		return
	}
	cur := m.rows[m.Cursor]
	if m.Expanded[cur.node.NodeID()] {
		m.Expanded[cur.node.NodeID()] = false
		return
	}
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < cur.depth {
			m.Cursor = i
			return
		}
	}
}

func (m *TreeModel) clamp() {
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Enterprise.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  ← collapse  s select  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  No regions."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		n := row.node

		marker := " "
		if len(n.Children()) > 0 {
			marker = "▸"
			if m.Expanded[n.NodeID()] {
				marker = "▾"
			}
		}
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", row.depth), marker, n.NodeName())
		kind := listDimStyle.Render(" " + n.Kind().String())
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line) + kind)
		} else {
			b.WriteString(listNormalStyle.Render(line) + kind)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	return b.String()
}
