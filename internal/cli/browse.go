package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/render/starmap"
)

// Detail pane styles
var (
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// detailWidth is the space reserved right of the map for the detail pane.
const detailWidth = 48

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [galaxy.json]",
		Short: "Explore a galaxy interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := galaxyio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newBrowseModel(g), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// browseModel - Interactive galaxy map
// =============================================================================

// browseModel is the bubbletea model for the galaxy browser.
type browseModel struct {
	g      *galaxy.Galaxy
	cursor galaxy.MapLocation

	// selected indexes g.Systems for next/previous jumps.
	selected int

	width, height int
	legend        bool
}

func newBrowseModel(g *galaxy.Galaxy) browseModel {
	m := browseModel{g: g, width: 80, height: 24, legend: true}
	if len(g.Colonies) > 0 {
		m.cursor = g.Colonies[0].Location
		m.syncSelected()
	} else if len(g.Systems) > 0 {
		m.cursor = g.Systems[0].Location
	}
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "tab", "n":
			m.jump(1)
		case "shift+tab", "p":
			m.jump(-1)
		case "w":
			if s := m.system(); s != nil && s.Destination != nil {
				m.cursor = *s.Destination
				m.syncSelected()
			}
		case "?":
			m.legend = !m.legend
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m *browseModel) move(dx, dy int) {
	x := min(max(m.cursor.X+dx, 0), m.g.Width-1)
	y := min(max(m.cursor.Y+dy, 0), m.g.Height-1)
	m.cursor = galaxy.MapLocation{X: x, Y: y}
	m.syncSelected()
}

// jump moves the cursor to the next system in scan order.
func (m *browseModel) jump(step int) {
	n := len(m.g.Systems)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+step)%n + n) % n
	m.cursor = m.g.Systems[m.selected].Location
}

func (m *browseModel) syncSelected() {
	if s := m.system(); s != nil {
		m.selected = s.ID
	}
}

// system returns the system under the cursor.
func (m browseModel) system() *galaxy.StarSystem {
	if sectors := m.g.Sectors(); sectors != nil {
		if s, ok := sectors.SystemAt(m.cursor); ok {
			return s
		}
	}
	return nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Galaxy %dx%d", m.g.Width, m.g.Height)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · seed %d · %d systems", m.g.Shape, m.g.Seed, len(m.g.Systems))))
	b.WriteString("\n\n")

	mapW := max(m.width-detailWidth-2, 10)
	mapH := max(m.height-6, 5)
	win := starmap.Follow(m.cursor, m.g.Width, m.g.Height, mapW, mapH)
	grid := starmap.Grid(m.g, &m.cursor, win)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", m.detail()))
	b.WriteString("\n")
	if m.legend {
		b.WriteString(starmap.Legend(m.g))
	}
	b.WriteString(helpStyle.Render("←↑↓→/hjkl move  n/p next system  w follow wormhole  ? legend  q quit"))
	return b.String()
}

// detail renders the pane describing the sector under the cursor.
func (m browseModel) detail() string {
	var b strings.Builder
	q := galaxy.QuadrantOf(m.cursor, m.g.Width, m.g.Height)
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s  %s quadrant", m.cursor, q)))
	b.WriteString("\n")

	s := m.system()
	if s == nil {
		b.WriteString(StyleDim.Render("empty space"))
		return paneStyle.Width(detailWidth - 2).Render(b.String())
	}

	name := s.Name
	if name == "" {
		name = "unnamed"
	}
	b.WriteString(StyleHighlight.Render(name) + " " + StyleDim.Render(s.StarType.String()))
	b.WriteString("\n")
	if s.Owner != "" {
		b.WriteString(StyleSuccess.Render("home of " + s.Owner))
		b.WriteString("\n")
	} else if s.Inhabitants != "" {
		b.WriteString(StyleWarning.Render("inhabited by " + s.Inhabitants))
		b.WriteString("\n")
	}
	if s.Bonuses != 0 {
		b.WriteString(StyleDim.Render("bonuses: ") + StyleValue.Render(s.Bonuses.String()))
		b.WriteString("\n")
	}
	if s.Destination != nil {
		b.WriteString(StyleDim.Render("leads to ") + StyleNumber.Render(s.Destination.String()))
		b.WriteString("\n")
	}
	if len(s.Planets) > 0 {
		b.WriteString(planetTable(s.Planets))
	}
	return paneStyle.Width(detailWidth - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func planetTable(planets []galaxy.Planet) string {
	rows := make([][]string, len(planets))
	for i, p := range planets {
		bonus := ""
		if p.Bonuses != 0 {
			bonus = p.Bonuses.String()
		}
		rows[i] = []string{fmt.Sprint(p.Index), p.Name, p.Size.String(), p.Type.String(), fmt.Sprint(len(p.Moons)), bonus}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Planet", "Size", "Type", "Moons", "Bonus").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
