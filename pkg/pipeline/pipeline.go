// Package pipeline provides the galaxy generation pipeline for stargen.
//
// This package sequences the core engine packages into one generation run
// that the CLI and the API share. By centralizing this logic, every entry
// point applies the same defaults, the same retry policy, and the same
// caching.
//
// # Architecture
//
// One generation attempt runs these stages:
//
//  1. Layout: star positions for the chosen galaxy shape
//  2. Shuffle: the candidate positions are shuffled once per attempt
//  3. Homeworlds: empires and minor races claim positions
//  4. Home systems: home systems are composed in parallel
//  5. Systems: all remaining positions are composed in parallel
//  6. Naming: systems and planets are named from the catalog pools
//  7. Wormholes: scripted endpoints are placed and wormholes linked
//  8. Commit: systems get IDs and the sector grid is built
//
// If an empire cannot be placed, the attempt is discarded and a new one
// starts from the layout stage. The number of attempts is bounded by
// [Options.MaxAttempts].
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Size:  "medium",
//	    Shape: "spiral",
//	    Seed:  42,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Galaxy.Systems))
//
// Or call the generator directly without caching:
//
//	g, err := pipeline.Generate(ctx, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/cache"
	"github.com/matzehuels/stargen/pkg/core/catalog"
	"github.com/matzehuels/stargen/pkg/core/compose"
	"github.com/matzehuels/stargen/pkg/core/homeworld"
	"github.com/matzehuels/stargen/pkg/core/layout"
	"github.com/matzehuels/stargen/pkg/core/tables"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSize is the galaxy size preset used when no dimensions are given.
	DefaultSize = "small"

	// DefaultShape is the default galaxy shape.
	DefaultShape = "irregular"

	// DefaultStarDensity is the default share of cells that hold a star.
	DefaultStarDensity = "medium"

	// DefaultPlanetDensity is the default planet slot reduction.
	DefaultPlanetDensity = "medium"

	// DefaultMinorRaces is the default minor race frequency.
	DefaultMinorRaces = "some"

	// DefaultMode is the default game mode.
	DefaultMode = ModeSinglePlayer

	// DefaultMaxAttempts bounds the number of generation attempts.
	DefaultMaxAttempts = 200

	// UnboundedAttempts disables the attempt bound. Infeasible settings then
	// retry until the context is canceled.
	UnboundedAttempts = -1
)

// Game modes.
const (
	ModeSinglePlayer = "single"
	ModeMultiplayer  = "multi"
)

// Dimensions is a map size.
type Dimensions struct {
	Width, Height int
}

// Sizes maps galaxy size presets to map dimensions.
var Sizes = map[string]Dimensions{
	"tiny":   {40, 30},
	"small":  {60, 45},
	"medium": {80, 60},
	"large":  {100, 75},
	"huge":   {128, 96},
}

// StarDensities maps star density names to the percentage of map cells
// that receive a star.
var StarDensities = map[string]int{
	"sparse": 5,
	"medium": 8,
	"dense":  12,
}

// ValidModes is the set of supported game modes.
var ValidModes = map[string]bool{
	ModeSinglePlayer: true,
	ModeMultiplayer:  true,
}

// =============================================================================
// Options - Generation Configuration
// =============================================================================

// Options contains all configuration for a generation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Map size. Width and Height override the Size preset when both are set.
	Size   string `json:"size,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	// Content options
	Shape         string   `json:"shape,omitempty"`
	StarDensity   string   `json:"star_density,omitempty"`
	PlanetDensity string   `json:"planet_density,omitempty"`
	MinorRaces    string   `json:"minor_races,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	Empires       []string `json:"empires,omitempty"` // Empire keys; empty selects all

	// Seed is the generation seed. 0 selects a time based seed; the seed
	// actually used is reported on the generated galaxy.
	Seed uint64 `json:"seed,omitempty"`

	// MaxAttempts bounds whole-attempt retries. 0 selects DefaultMaxAttempts,
	// UnboundedAttempts disables the bound.
	MaxAttempts int `json:"max_attempts,omitempty"`

	// ReproducibleJitter derives the elliptical layout jitter from Seed.
	// When false the jitter source is seeded from the clock.
	ReproducibleJitter bool `json:"reproducible_jitter,omitempty"`

	Refresh bool `json:"refresh,omitempty"` // Bypass the cache

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Tables  *tables.Tables   `json:"-"`
	Catalog *catalog.Catalog `json:"-"`

	// resolved enum values, set by ValidateAndSetDefaults
	shape         layout.Shape
	planetDensity compose.PlanetDensity
	minorRaces    homeworld.MinorRaceFrequency

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateSize checks that a size preset exists.
func ValidateSize(size string) error {
	if _, ok := Sizes[size]; !ok {
		return serrors.New(serrors.ErrCodeInvalidOptions, "invalid size: %q (must be one of: tiny, small, medium, large, huge)", size)
	}
	return nil
}

// ValidateStarDensity checks that a star density exists.
func ValidateStarDensity(density string) error {
	if _, ok := StarDensities[density]; !ok {
		return serrors.New(serrors.ErrCodeInvalidOptions, "invalid star_density: %q (must be one of: sparse, medium, dense)", density)
	}
	return nil
}

// ValidateMode checks that a game mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return serrors.New(serrors.ErrCodeInvalidOptions, "invalid mode: %q (must be one of: single, multi)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.normalize()

	if o.Width == 0 && o.Height == 0 {
		if o.Size == "" {
			o.Size = DefaultSize
		}
		if err := ValidateSize(o.Size); err != nil {
			return err
		}
		d := Sizes[o.Size]
		o.Width, o.Height = d.Width, d.Height
	}
	if err := serrors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}

	if o.Shape == "" {
		o.Shape = DefaultShape
	}
	shape, err := layout.ParseShape(o.Shape)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "invalid shape")
	}
	o.shape = shape

	if o.StarDensity == "" {
		o.StarDensity = DefaultStarDensity
	}
	if err := ValidateStarDensity(o.StarDensity); err != nil {
		return err
	}

	if o.PlanetDensity == "" {
		o.PlanetDensity = DefaultPlanetDensity
	}
	pd, err := compose.ParsePlanetDensity(o.PlanetDensity)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "invalid planet_density")
	}
	o.planetDensity = pd

	if o.MinorRaces == "" {
		o.MinorRaces = DefaultMinorRaces
	}
	mr, err := homeworld.ParseMinorRaceFrequency(o.MinorRaces)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "invalid minor_races")
	}
	o.minorRaces = mr

	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}

	for _, key := range o.Empires {
		if err := serrors.ValidateKey(key); err != nil {
			return serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "invalid empire")
		}
	}

	switch {
	case o.MaxAttempts == 0:
		o.MaxAttempts = DefaultMaxAttempts
	case o.MaxAttempts < 0:
		o.MaxAttempts = UnboundedAttempts
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// normalize lower-cases enum strings and upper-cases empire keys.
func (o *Options) normalize() {
	for _, s := range []*string{&o.Size, &o.Shape, &o.StarDensity, &o.PlanetDensity, &o.MinorRaces, &o.Mode} {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
	for i, k := range o.Empires {
		o.Empires[i] = strings.ToUpper(strings.TrimSpace(k))
	}
}

// StarCount returns the number of star positions requested for the map.
func (o *Options) StarCount() int {
	return o.Width * o.Height * StarDensities[o.StarDensity] / 100
}

// SinglePlayer reports whether empires are bound to their home quadrant.
func (o *Options) SinglePlayer() bool {
	return o.Mode == ModeSinglePlayer
}

// Unbounded reports whether the attempt bound is disabled.
func (o *Options) Unbounded() bool {
	return o.MaxAttempts == UnboundedAttempts
}

// GalaxyKeyOpts returns cache key options for a generated galaxy. It must
// be called after the seed is resolved.
func (o *Options) GalaxyKeyOpts() cache.GalaxyKeyOpts {
	return cache.GalaxyKeyOpts{
		Width:              o.Width,
		Height:             o.Height,
		Shape:              o.Shape,
		StarDensity:        o.StarDensity,
		PlanetDensity:      o.PlanetDensity,
		MinorRaces:         o.MinorRaces,
		Mode:               o.Mode,
		Empires:            o.Empires,
		Seed:               o.Seed,
		ReproducibleJitter: o.ReproducibleJitter,
	}
}

// String returns a short human readable summary.
func (o *Options) String() string {
	return fmt.Sprintf("%dx%d %s, %s stars, %s planets, %s minors, seed %d",
		o.Width, o.Height, o.Shape, o.StarDensity, o.PlanetDensity, o.MinorRaces, o.Seed)
}
