package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/pipeline"
	"github.com/matzehuels/stargen/pkg/render/starmap"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (or base path for multiple outputs)
	formats []string // output formats: svg, png, pdf, ascii, json
	labels  bool     // write system names on the map
	ascii   bool     // print the terminal map instead of writing files
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [galaxy.json]",
		Short: "Render a galaxy to a star map",
		Long: `Render a galaxy file to a star map.

SVG uses the embedded Graphviz engine; PNG and PDF additionally need
rsvg-convert on the PATH.`,
		Example: `  stargen render galaxy-42.json
  stargen render galaxy-42.json -f svg,png --labels -o maps/home
  stargen render galaxy-42.json --ascii`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+pipeline.FormatList()+" (default svg, comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label named systems")
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "print the map to the terminal")

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one format. A single format with an
// explicit output path writes exactly there.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	ext := format
	if format == pipeline.FormatASCII {
		ext = "txt"
	}
	return basePath(output, input) + "." + ext
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	g, err := galaxyio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded galaxy", "path", input, "systems", len(g.Systems))

	if opts.ascii {
		fmt.Fprintln(c.out, starmap.Terminal(g))
		fmt.Fprintln(c.out, starmap.Legend(g))
		return nil
	}

	prog := newProgress(logger)
	artifacts, err := pipeline.Render(ctx, g, pipeline.RenderOptions{Formats: opts.formats, Labels: opts.labels})
	if err != nil {
		return err
	}
	prog.done("Rendered star map", "formats", len(artifacts))

	formats := slices.Sorted(maps.Keys(artifacts))
	single := len(formats) == 1
	c.ok("Rendered %s", input)
	for _, format := range formats {
		path := outputPath(opts.output, input, format, single)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.file(path)
	}
	return nil
}
