package starmap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

var (
	styleEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	styleCursor = lipgloss.NewStyle().Reverse(true)
	styleLegend = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// emptyGlyph fills sectors without a system.
const emptyGlyph = "·"

// Terminal draws g as a grid of glyphs, one per sector, followed by a
// legend. Without a color profile lipgloss emits plain text.
func Terminal(g *galaxy.Galaxy) string {
	return TerminalWithCursor(g, nil)
}

// TerminalWithCursor is [Terminal] with the sector at cursor highlighted.
func TerminalWithCursor(g *galaxy.Galaxy, cursor *galaxy.MapLocation) string {
	return Grid(g, cursor, Window{Width: g.Width, Height: g.Height}) + Legend(g)
}

// Window is a rectangle of sectors.
type Window struct {
	X, Y          int
	Width, Height int
}

// Follow returns a w×h window over a width×height map that keeps at on
// screen, centered where the map edges allow.
func Follow(at galaxy.MapLocation, width, height, w, h int) Window {
	w, h = min(w, width), min(h, height)
	x := min(max(at.X-w/2, 0), width-w)
	y := min(max(at.Y-h/2, 0), height-h)
	return Window{X: x, Y: y, Width: w, Height: h}
}

// Grid draws the sectors inside win, one line per row, without a legend.
func Grid(g *galaxy.Galaxy, cursor *galaxy.MapLocation, win Window) string {
	cells := make([]*galaxy.StarSystem, g.Width*g.Height)
	for _, s := range g.Systems {
		if s.Location.X < g.Width && s.Location.Y < g.Height {
			cells[s.Location.Y*g.Width+s.Location.X] = s
		}
	}

	var b strings.Builder
	for y := win.Y; y < win.Y+win.Height && y < g.Height; y++ {
		for x := win.X; x < win.X+win.Width && x < g.Width; x++ {
			cell := renderCell(cells[y*g.Width+x])
			if cursor != nil && cursor.X == x && cursor.Y == y {
				cell = styleCursor.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderCell(s *galaxy.StarSystem) string {
	if s == nil {
		return styleEmpty.Render(emptyGlyph)
	}
	p := paintOf(s)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.term)).Render(p.glyph)
}

// Legend lists the glyph of every star type present in g.
func Legend(g *galaxy.Galaxy) string {
	present := make(map[galaxy.StarType]bool)
	homes := false
	for _, s := range g.Systems {
		if s.IsHomeSystem() {
			homes = true
			continue
		}
		present[s.StarType] = true
	}

	var parts []string
	if homes {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(homeTerm)).Render("H")+" "+styleLegend.Render("home"))
	}
	for _, t := range galaxy.StarTypes {
		if !present[t] {
			continue
		}
		p := palette[t]
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(p.term)).Render(p.glyph)+" "+styleLegend.Render(t.String()))
	}
	return strings.Join(parts, "  ") + "\n"
}
