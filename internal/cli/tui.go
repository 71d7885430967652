package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stowage/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const minListHeight = 5

// =============================================================================
// BoxListModel - Interactive layout browser
// =============================================================================

// BoxListModel is the bubbletea model for browsing the boxes of a layout.
type BoxListModel struct {
	Layout      layout.Layout
	Cursor      int
	Height      int
	Offset      int
	OnlyOverlap bool

	// visible holds indices into Layout.Boxes for the current filter.
	visible []int
}

// NewBoxListModel creates a new box list model.
func NewBoxListModel(l layout.Layout) BoxListModel {
	m := BoxListModel{Layout: l, Height: 15}
	m.refilter()
	return m
}

func (m *BoxListModel) refilter() {
	m.visible = make([]int, 0, len(m.Layout.Boxes))
	for i, b := range m.Layout.Boxes {
		if !m.OnlyOverlap || b.Overlapping {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the box under the cursor, or false if the list is empty.
func (m BoxListModel) Selected() (layout.Box, int, bool) {
	if len(m.visible) == 0 {
		return layout.Box{}, -1, false
	}
	i := m.visible[m.Cursor]
	return m.Layout.Boxes[i], i, true
}

func (m BoxListModel) Init() tea.Cmd {
	return nil
}

func (m BoxListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "o":
			m.OnlyOverlap = !m.OnlyOverlap
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, minListHeight)
	}
	return m, nil
}

func (m BoxListModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Layout %s", m.Layout.Strategy)
	if m.OnlyOverlap {
		title += " (overlapping only)"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  o toggle overlaps  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no boxes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		idx := m.visible[i]
		box := m.Layout.Boxes[idx]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(idx), box.Name, formatDims(box.Dims), formatPoint(box.Origin)})
	}

	t := newTable().
		Headers("", "#", "Name", "L×W×H (m)", "Origin (m)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			pos := m.Offset + row
			if pos >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if m.Layout.Boxes[m.visible[pos]].Overlapping {
				style = StyleOverlap
			}
			if pos == m.Cursor {
				style = style.Bold(true)
				if !m.Layout.Boxes[m.visible[pos]].Overlapping {
					style = listSelectedStyle
				}
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

// detail describes the selected box in scene space.
func (m BoxListModel) detail() string {
	box, idx, ok := m.Selected()
	if !ok {
		return ""
	}
	lines := []string{
		fmt.Sprintf("  %s  item %d copy %d  color %s", StyleValue.Render(box.Name), box.Item, box.Instance, box.Color),
		listDimStyle.Render(fmt.Sprintf("  center %s  render %s", formatPoint(box.Center), formatDims(box.RenderSize))),
	}
	for _, p := range m.Layout.Overlaps {
		other := -1
		switch idx {
		case p.A:
			other = p.B
		case p.B:
			other = p.A
		}
		if other >= 0 {
			lines = append(lines, StyleOverlap.Render(fmt.Sprintf("  overlaps #%d by %s", other, formatPoint(p.Extent))))
		}
	}
	return strings.Join(lines, "\n")
}
