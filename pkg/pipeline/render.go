package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/stargen/pkg/cache"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/observability"
	"github.com/matzehuels/stargen/pkg/render"
	"github.com/matzehuels/stargen/pkg/render/starmap"
)

// Output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatASCII = "ascii"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatASCII: true,
	FormatJSON:  true,
}

// ValidateFormat checks that a format is supported. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return serrors.New(serrors.ErrCodeInvalidOptions, "invalid format: %q (must be one of: ascii, json, pdf, png, svg)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// RenderOptions configures star map output.
type RenderOptions struct {
	Formats []string
	Labels  bool
}

// Render produces g in every requested format.
func Render(ctx context.Context, g *galaxy.Galaxy, opts RenderOptions) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	mapOpts := starmap.Options{Labels: opts.Labels}

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = starmap.SVG(g, mapOpts)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, 2.0)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatASCII:
			data = []byte(starmap.Terminal(g))
		case FormatJSON:
			data, err = galaxyio.Marshal(g)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderWithCacheInfo renders res.Galaxy, reusing cached artifacts when the
// galaxy itself came from a reproducible run. It reports whether every
// artifact was served from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts RenderOptions) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	if res.Key == "" {
		artifacts, err := Render(ctx, res.Galaxy, opts)
		return artifacts, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(res.Key, cache.RenderKeyOpts{Format: format, Labels: opts.Labels})
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "render")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "render")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, res.Galaxy, RenderOptions{Formats: missing, Labels: opts.Labels})
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.RenderKey(res.Key, cache.RenderKeyOpts{Format: format, Labels: opts.Labels})
		if err := r.Cache.Set(ctx, key, data, cache.RenderTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "render", len(data))
	}
	return artifacts, false, nil
}

// FormatList returns the supported formats, sorted.
func FormatList() string {
	formats := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}
