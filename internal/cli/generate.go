package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/pipeline"
	"github.com/matzehuels/stargen/pkg/render/starmap"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output  string // JSON output path; "-" writes to stdout
	empires string // comma-separated empire keys
	save    bool   // persist to the galaxy store
	showMap bool   // print a terminal preview
	noCache bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var flags generateOpts
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a galaxy",
		Long: `Generate a galaxy and write it as JSON.

Unset options come from the [generate] section of the config file. A seed of
0 picks a time-based seed; any other seed reproduces the same galaxy.`,
		Example: `  stargen generate --size medium --shape spiral --seed 42
  stargen generate --empires FEDERATION,KLINGONS --map -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.mergeDefaults(cmd, &opts)
			if flags.empires != "" {
				opts.Empires = strings.Split(flags.empires, ",")
			}
			if err := c.applyData(&opts); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Size, "size", "", "size preset: tiny, small, medium, large, huge")
	f.IntVar(&opts.Width, "width", 0, "map width in cells (overrides --size)")
	f.IntVar(&opts.Height, "height", 0, "map height in cells (overrides --size)")
	f.StringVar(&opts.Shape, "shape", "", "shape: irregular, elliptical, spiral, ring, cluster")
	f.StringVar(&opts.StarDensity, "stars", "", "star density: sparse, medium, dense")
	f.StringVar(&opts.PlanetDensity, "planets", "", "planet density: sparse, medium, dense")
	f.StringVar(&opts.MinorRaces, "minors", "", "minor races: none, few, some, many")
	f.StringVar(&opts.Mode, "mode", "", "game mode: single, multi")
	f.StringVar(&flags.empires, "empires", "", "comma-separated empire keys (default all)")
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed (0 for time-based)")
	f.IntVar(&opts.MaxAttempts, "max-attempts", 0, "generation attempts before giving up (-1 for unbounded)")
	f.BoolVar(&opts.ReproducibleJitter, "reproducible-jitter", false, "derive elliptical jitter from the seed")
	f.BoolVar(&opts.Refresh, "refresh", false, "regenerate even if cached")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	f.StringVarP(&flags.output, "output", "o", "", "output file (default galaxy-<seed>.json, - for stdout)")
	f.BoolVar(&flags.save, "save", false, "save the galaxy to the store")
	f.BoolVar(&flags.showMap, "map", false, "print a terminal map")

	return cmd
}

// mergeDefaults fills options the user did not set from the config file.
func (c *CLI) mergeDefaults(cmd *cobra.Command, opts *pipeline.Options) {
	d := c.cfg.Options()
	set := func(name string, dst *string, def string) {
		if !cmd.Flags().Changed(name) {
			*dst = def
		}
	}
	set("size", &opts.Size, d.Size)
	set("shape", &opts.Shape, d.Shape)
	set("stars", &opts.StarDensity, d.StarDensity)
	set("planets", &opts.PlanetDensity, d.PlanetDensity)
	set("minors", &opts.MinorRaces, d.MinorRaces)
	set("mode", &opts.Mode, d.Mode)
	if !cmd.Flags().Changed("max-attempts") {
		opts.MaxAttempts = d.MaxAttempts
	}
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, flags generateOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := startSpinner(ctx, c.status, "Generating galaxy...")
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	g := res.Galaxy
	prog.done("Generated galaxy", "systems", len(g.Systems), "attempts", g.Attempts, "cached", res.CacheHit)
	logger.Debug("generation details", "seed", g.Seed, "attempts", g.Attempts, "discarded", spin.Attempts(), "key", res.Key)

	output := flags.output
	if output == "" {
		output = fmt.Sprintf("galaxy-%d.json", g.Seed)
	}
	if output == "-" {
		if err := galaxyio.WriteJSON(g, c.out); err != nil {
			return err
		}
	} else {
		if err := galaxyio.ExportJSON(g, output); err != nil {
			return err
		}
		c.summary(g, res.Stats, res.CacheHit)
		c.field("Seed", fmt.Sprint(g.Seed))
		c.file(output)
		if strings.EqualFold(g.Shape, "elliptical") && !opts.ReproducibleJitter {
			c.warn("elliptical jitter is clock seeded; pass --reproducible-jitter to repeat this galaxy")
		}
	}

	if flags.save {
		if err := c.save(ctx, g); err != nil {
			return err
		}
	}
	if flags.showMap {
		fmt.Fprintln(c.status, starmap.Terminal(g))
		fmt.Fprintln(c.status, starmap.Legend(g))
	}
	if output != "-" {
		c.nextStep("Explore it", "stargen browse "+output)
	}
	return nil
}

func (c *CLI) save(ctx context.Context, g *galaxy.Galaxy) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	rec, err := st.Save(ctx, g)
	if err != nil {
		return err
	}
	c.field("Saved", StyleHighlight.Render(rec.ID))
	return nil
}
