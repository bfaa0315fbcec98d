package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorSky   = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by the commands and the browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleLink      = lipgloss.NewStyle().Foreground(colorSky).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorTeal)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleCommand     = lipgloss.NewStyle().Foreground(colorSky)
	styleSeparator   = StyleDim.Render(" · ")
)

// Status lines go to c.status so that stdout only carries galaxy data.

func (c *CLI) ok(format string, args ...any) {
	fmt.Fprintln(c.status, StyleSuccess.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) warn(format string, args ...any) {
	fmt.Fprintln(c.status, StyleWarning.Render("! "+fmt.Sprintf(format, args...)))
}

func (c *CLI) note(format string, args ...any) {
	fmt.Fprintln(c.status, StyleDim.Render("›")+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) detail(format string, args ...any) {
	fmt.Fprintln(c.status, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) file(path string) {
	fmt.Fprintln(c.status, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (c *CLI) field(key, value string) {
	fmt.Fprintln(c.status, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

func (c *CLI) nextStep(description, cmd string) {
	fmt.Fprintln(c.status, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// summary prints the one-line census of a generated galaxy, for example
// "60x45 spiral · 212 systems · 9 colonies · 3 wormholes · fresh".
func (c *CLI) summary(g *galaxy.Galaxy, st galaxy.Stats, cached bool) {
	parts := []string{
		StyleValue.Render(fmt.Sprintf("%dx%d %s", g.Width, g.Height, g.Shape)),
		StyleDim.Render(fmt.Sprintf("%d systems", st.Systems)),
		StyleDim.Render(fmt.Sprintf("%d planets", st.Planets)),
		StyleDim.Render(fmt.Sprintf("%d colonies", st.Colonies)),
	}
	if st.Wormholes > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d wormholes", st.Wormholes)))
	}
	if g.Attempts > 1 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d attempts", g.Attempts)))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(c.status, StyleSuccess.Render("✓")+" "+strings.Join(parts, styleSeparator))
}
