package starmap

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

// ToDOT converts g to a Graphviz graph with one pinned node per system.
// Map row 0 is drawn at the top.
func ToDOT(g *galaxy.Galaxy, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph galaxy {\n")
	buf.WriteString("  bgcolor=\"#0b0d17\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, label=\"\", penwidth=0, fontcolor=\"#c8c8c8\", fontsize=8];\n")
	buf.WriteString("  edge [color=\"#ff66cc\", style=dashed, penwidth=0.6];\n")
	fmt.Fprintf(&buf, "  frame [shape=box, style=invis, width=%.2f, height=%.2f, pos=\"%.2f,%.2f!\"];\n",
		float64(g.Width)*scale, float64(g.Height)*scale,
		float64(g.Width)*scale/2, float64(g.Height)*scale/2)
	buf.WriteString("\n")

	for _, s := range g.Systems {
		fmt.Fprintf(&buf, "  s%d [%s];\n", s.ID, strings.Join(nodeAttrs(g, s, scale, opts.Labels), ", "))
	}

	buf.WriteString("\n")
	seen := make(map[int]bool)
	sectors := g.Sectors()
	for _, s := range g.Systems {
		if s.Destination == nil || sectors == nil {
			continue
		}
		d, ok := sectors.SystemAt(*s.Destination)
		if !ok || seen[d.ID] {
			continue
		}
		seen[s.ID] = true
		fmt.Fprintf(&buf, "  s%d -- s%d;\n", s.ID, d.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *galaxy.Galaxy, s *galaxy.StarSystem, scale float64, labels bool) []string {
	p := paintOf(s)
	fill := p.fill
	size := 0.08
	switch {
	case s.IsHomeSystem():
		fill, size = homeFill, 0.14
	case s.StarType == galaxy.StarNebula:
		size = 0.16
	case s.StarType.Exotic():
		size = 0.10
	}
	x := (float64(s.Location.X) + 0.5) * scale
	y := (float64(g.Height-s.Location.Y) - 0.5) * scale

	attrs := []string{
		fmt.Sprintf("pos=\"%.3f,%.3f!\"", x, y),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("width=%.2f", size),
		fmt.Sprintf("tooltip=%q", tooltip(s)),
	}
	if labels && s.Name != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", s.Name))
	}
	return attrs
}

func tooltip(s *galaxy.StarSystem) string {
	var b strings.Builder
	name := s.Name
	if name == "" {
		name = "Unnamed"
	}
	fmt.Fprintf(&b, "%s (%s) at %s", name, s.StarType, s.Location)
	if s.Owner != "" {
		fmt.Fprintf(&b, ", home of %s", s.Owner)
	}
	if n := len(s.Planets); n > 0 {
		fmt.Fprintf(&b, ", %d planets", n)
	}
	return b.String()
}

// RenderSVG lays out dot with neato and renders it to SVG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// SVG renders g directly to SVG.
func SVG(g *galaxy.Galaxy, opts Options) ([]byte, error) {
	return RenderSVG(ToDOT(g, opts))
}
