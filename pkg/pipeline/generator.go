package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/core/catalog"
	"github.com/matzehuels/stargen/pkg/core/compose"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/homeworld"
	"github.com/matzehuels/stargen/pkg/core/layout"
	"github.com/matzehuels/stargen/pkg/core/sampler"
	"github.com/matzehuels/stargen/pkg/core/tables"
	"github.com/matzehuels/stargen/pkg/core/wormhole"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	"github.com/matzehuels/stargen/pkg/observability"
)

// jitterSalt separates the reproducible jitter stream from the main RNG.
const jitterSalt = 0x9e3779b97f4a7c15

// GenerationContext carries everything one generation run needs. A context
// belongs to a single run and is not safe for concurrent use.
type GenerationContext struct {
	Options *Options
	RNG     *rand.Rand
	Tables  *tables.Tables
	Catalog *catalog.Catalog
	Logger  *log.Logger

	// Roster is the requested civilization list before pruning.
	Roster []galaxy.Civilization

	layout   layout.Layout
	composer *compose.Composer
}

// NewGenerationContext validates opts, resolves the seed, and loads the
// default tables and catalog where none were supplied.
func NewGenerationContext(opts *Options) (*GenerationContext, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Seed == 0 {
		opts.Seed = sampler.TimeSeed()
	}

	tb := opts.Tables
	if tb == nil {
		var err error
		if tb, err = tables.Default(); err != nil {
			return nil, err
		}
	}
	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(opts.Logger); err != nil {
			return nil, err
		}
	}
	roster, err := cat.Roster(opts.Empires)
	if err != nil {
		return nil, err
	}

	cfg := layout.Config{}
	for _, civ := range roster {
		if civ.IsEmpire() && civ.Anchor != nil {
			cfg.Anchors = append(cfg.Anchors, *civ.Anchor)
		}
	}
	if opts.ReproducibleJitter {
		cfg.Jitter = sampler.NewRNG(opts.Seed ^ jitterSalt)
	}
	lay, err := layout.ForShape(opts.shape, cfg)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "layout")
	}

	return &GenerationContext{
		Options:  opts,
		RNG:      sampler.NewRNG(opts.Seed),
		Tables:   tb,
		Catalog:  cat,
		Logger:   opts.Logger,
		Roster:   roster,
		layout:   lay,
		composer: compose.New(tb, opts.Width, opts.Height, opts.planetDensity),
	}, nil
}

// Generate runs generation attempts until one places every empire.
// Exhausting opts.MaxAttempts returns a GENERATION_EXHAUSTED error that
// wraps the last placement failure.
func Generate(ctx context.Context, opts Options) (*galaxy.Galaxy, error) {
	gc, err := NewGenerationContext(&opts)
	if err != nil {
		return nil, err
	}
	return gc.Run(ctx)
}

// Run executes the retry loop.
func (gc *GenerationContext) Run(ctx context.Context) (*galaxy.Galaxy, error) {
	opts := gc.Options
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnGenerateStart(ctx, opts.Shape, opts.Width, opts.Height, opts.Seed)

	var last *homeworld.Failure
	for attempt := 1; opts.Unbounded() || attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			hooks.OnGenerateComplete(ctx, attempt-1, time.Since(start), err)
			return nil, err
		}
		g, failure, err := gc.Attempt(ctx)
		if err != nil {
			hooks.OnGenerateComplete(ctx, attempt, time.Since(start), err)
			return nil, err
		}
		if failure != nil {
			last = failure
			hooks.OnAttemptFailed(ctx, attempt, failure.Civilization)
			gc.Logger.Debug("attempt failed", "attempt", attempt, "reason", failure)
			continue
		}
		g.Attempts = attempt
		gc.Logger.Info("generated galaxy",
			"systems", len(g.Systems),
			"colonies", len(g.Colonies),
			"attempt", attempt,
			"duration", time.Since(start))
		hooks.OnGenerateComplete(ctx, attempt, time.Since(start), nil)
		return g, nil
	}

	err := serrors.Wrap(serrors.ErrCodeGenerationExhausted, last, "no valid galaxy after %d attempts", opts.MaxAttempts)
	hooks.OnGenerateComplete(ctx, opts.MaxAttempts, time.Since(start), err)
	return nil, err
}

// Attempt runs one generation attempt. A non-nil failure means an empire
// could not be placed and the attempt should be discarded.
func (gc *GenerationContext) Attempt(ctx context.Context) (*galaxy.Galaxy, *homeworld.Failure, error) {
	opts := gc.Options
	w, h := opts.Width, opts.Height

	positions := gc.layout.Positions(gc.RNG, opts.StarCount(), w, h)
	sampler.Shuffle(gc.RNG, positions)

	solver := homeworld.NewSolver(homeworld.Options{
		Width:        w,
		Height:       h,
		SinglePlayer: opts.SinglePlayer(),
		Minors:       opts.minorRaces,
		Logger:       gc.Logger,
	})
	placed := solver.Solve(gc.RNG, positions, gc.Roster)
	if !placed.OK() {
		return nil, placed.Failure, nil
	}
	homeworlds := placed.Homeworlds()

	homeReqs := make([]compose.Request, 0, len(homeworlds))
	for _, a := range placed.Assignments() {
		civ := a.Civilization
		homeReqs = append(homeReqs, compose.Request{
			Location:     a.Location,
			Civilization: &civ,
			Override:     gc.Catalog.HomeSystems[civ.Key],
		})
	}
	homes, err := gc.composer.ComposeAll(ctx, gc.RNG, homeReqs, homeworlds)
	if err != nil {
		return nil, nil, err
	}

	reqs := make([]compose.Request, len(placed.Remaining))
	for i, loc := range placed.Remaining {
		reqs[i] = compose.Request{Location: loc}
	}
	rest, err := gc.composer.ComposeAll(ctx, gc.RNG, reqs, homeworlds)
	if err != nil {
		return nil, nil, err
	}

	systems := make([]*galaxy.StarSystem, 0, len(homes)+len(rest)+len(wormhole.Endpoints))
	stars := catalog.NewNamePool(gc.Catalog.StarNames, gc.RNG)
	nebulae := catalog.NewNamePool(gc.Catalog.NebulaNames, gc.RNG)
	for _, r := range homes {
		if r.System.Name != "" {
			stars.Remove(r.System.Name)
		}
		systems = append(systems, r.System)
	}
	for _, r := range rest {
		systems = append(systems, r.System)
	}
	compose.Namer{Stars: stars, Nebulae: nebulae}.NameSystems(systems)

	colonies := make([]galaxy.Colony, len(homes))
	for i, r := range homes {
		colonies[i] = galaxy.Colony{
			Owner:       r.System.Owner,
			Name:        r.System.Planets[r.PrimePlanet].Name,
			PlanetIndex: r.PrimePlanet,
			Location:    r.System.Location,
		}
	}

	systems, _ = wormhole.NewLinker(w, h, gc.Logger).Link(systems, homeworlds)

	g := &galaxy.Galaxy{
		Width:         w,
		Height:        h,
		Seed:          opts.Seed,
		Shape:         opts.Shape,
		Systems:       systems,
		Colonies:      colonies,
		Civilizations: placed.Roster(),
	}
	if err := g.Commit(); err != nil {
		return nil, nil, serrors.Wrap(serrors.ErrCodeInternal, err, "commit galaxy")
	}
	return g, nil, nil
}
