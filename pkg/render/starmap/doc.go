// Package starmap draws generated galaxies.
//
// Two renderers share one palette:
//
//   - [ToDOT] and [RenderSVG] lay the systems out with Graphviz (neato,
//     pinned positions) and draw wormhole links as dashed edges
//   - [Terminal] draws the map as a grid of colored glyphs for the
//     terminal, one cell per sector
//
// PDF and PNG output convert the SVG with [render.ToPDF] and
// [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/stargen/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/stargen/pkg/render.ToPNG
package starmap

import "github.com/matzehuels/stargen/pkg/core/galaxy"

// Options configures rendering.
type Options struct {
	// Labels writes system names next to named stars.
	Labels bool

	// Scale is the size of one map cell in inches. Zero selects 0.25.
	Scale float64
}

const defaultScale = 0.25

type paint struct {
	glyph string
	fill  string // SVG fill
	term  string // ANSI 256 color
}

var palette = map[galaxy.StarType]paint{
	galaxy.StarWhite:       {"*", "#f4f4f4", "255"},
	galaxy.StarBlue:        {"*", "#6fa8ff", "75"},
	galaxy.StarYellow:      {"*", "#ffd84d", "220"},
	galaxy.StarOrange:      {"*", "#ff9f43", "208"},
	galaxy.StarRed:         {"*", "#e8514a", "167"},
	galaxy.StarNebula:      {"~", "#b57edc", "141"},
	galaxy.StarNeutron:     {"+", "#9ad0d6", "116"},
	galaxy.StarRadioPulsar: {"x", "#6ad39a", "78"},
	galaxy.StarXRayPulsar:  {"X", "#40e0d0", "44"},
	galaxy.StarBlackHole:   {"o", "#555555", "240"},
	galaxy.StarWormhole:    {"@", "#ff66cc", "205"},
}

// homeFill marks home systems in both renderers.
const (
	homeFill = "#36c5a5"
	homeTerm = "36"
)

func paintOf(s *galaxy.StarSystem) paint {
	p, ok := palette[s.StarType]
	if !ok {
		p = paint{"?", "#ffffff", "255"}
	}
	if s.IsHomeSystem() {
		p.glyph = "H"
		p.term = homeTerm
	}
	return p
}
