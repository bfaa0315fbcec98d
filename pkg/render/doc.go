// Package render provides output conversion for rendered star maps.
//
// The star map renderers live in [starmap]. This package converts their SVG
// output to other formats with the external rsvg-convert tool (librsvg):
//
//	svg, err := starmap.SVG(g, starmap.Options{})
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Install librsvg with brew install librsvg (macOS) or
// apt install librsvg2-bin (Linux). [Available] reports whether it is
// installed.
package render
