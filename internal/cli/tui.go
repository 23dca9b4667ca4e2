package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/treemap/pkg/render"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tooltipStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
)

// TileBrowserModel is the bubbletea model behind "treemap browse". Moving
// the cursor onto a tile shows its tooltip, as hovering does in the chart.
type TileBrowserModel struct {
	Title   string
	Tiles   []render.Tile
	Cursor  int
	Offset  int
	Height  int
	Tooltip render.Tooltip
}

// NewTileBrowserModel creates a browser over the scene's tiles.
func NewTileBrowserModel(s render.Scene) TileBrowserModel {
	m := TileBrowserModel{Title: s.Title, Tiles: s.Tiles, Height: 15}
	m.hover()
	return m
}

func (m TileBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TileBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.Tooltip = render.HideTooltip()
			return m, nil
		case "up", "k":
			m.move(m.Cursor - 1)
		case "down", "j":
			m.move(m.Cursor + 1)
		case "pgup":
			m.move(m.Cursor - m.Height)
		case "pgdown":
			m.move(m.Cursor + m.Height)
		case "home", "g":
			m.move(0)
		case "end", "G":
			m.move(len(m.Tiles) - 1)
		case "left", "h":
			m.move(m.categoryStart(-1))
		case "right", "l":
			m.move(m.categoryStart(1))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		m.scroll()
	}
	return m, nil
}

// move places the cursor at i, clamped, and hovers the tile there.
func (m *TileBrowserModel) move(i int) {
	if len(m.Tiles) == 0 {
		return
	}
	m.Cursor = min(max(i, 0), len(m.Tiles)-1)
	m.scroll()
	m.hover()
}

func (m *TileBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// hover shows the tooltip as if the pointer rested on the tile's center.
func (m *TileBrowserModel) hover() {
	if len(m.Tiles) == 0 {
		return
	}
	t := m.Tiles[m.Cursor]
	m.Tooltip = render.ShowTooltip(t, t.X+t.Width/2, t.Y+t.Height/2)
}

// categoryStart returns the index of the first tile of the next (dir > 0)
// or previous (dir < 0) category run.
func (m TileBrowserModel) categoryStart(dir int) int {
	if len(m.Tiles) == 0 {
		return 0
	}
	cat := m.Tiles[m.Cursor].Category
	i := m.Cursor
	if dir > 0 {
		for i < len(m.Tiles) && m.Tiles[i].Category == cat {
			i++
		}
		return i
	}
	for i > 0 && m.Tiles[i-1].Category == cat {
		i--
	}
	if i == m.Cursor && i > 0 {
		prev := m.Tiles[i-1].Category
		for i > 0 && m.Tiles[i-1].Category == prev {
			i--
		}
	}
	return i
}

func (m TileBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ←/→ category  esc hide tooltip  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Tiles))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Tiles[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(swatch),
			t.Name,
			t.Category,
			humanize.Commaf(t.Value),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Name", "Category", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(tbl.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Tiles))))
	b.WriteString("\n")

	if m.Tooltip.Visible() {
		b.WriteString(tooltipStyle.Render(strings.Join(m.Tooltip.Lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}
