// Package compose resolves the contents of star systems: star type,
// planets, moons, and resource bonuses.
//
// Every attribute is drawn with [sampler.Roll] against a distribution
// table. A [Composer] holds only immutable inputs, so one value may compose
// many systems concurrently as long as each call gets its own RNG; see
// [Composer.ComposeAll].
//
// # Star Types
//
// Star types are rolled against the star frequency vector. Disruptive types
// (nebulae, pulsars, neutron stars, black holes, wormholes) are excluded
// within [galaxy.MinHomeworldDistanceFromInterference] of a homeworld, and
// a wormhole rolled in the Alpha quadrant becomes a black hole.
//
// # Planets
//
// A star has up to MaxNumberOfPlanets slots, minus the planet density
// reduction. Each slot rolls a size (NoWorld leaves the slot empty) and
// then a type. Gas giant and asteroid sizes force the matching type.
//
// # Home Systems
//
// A home system starts from the civilization's override descriptor, if
// any, and always contains a prime planet matching the civilization's home
// planet type and size.
package compose

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/tables"
)

// PlanetDensity scales the number of planet slots per star.
type PlanetDensity int

const (
	PlanetsSparse PlanetDensity = iota
	PlanetsMedium
	PlanetsDense
)

var planetDensityNames = [...]string{"Sparse", "Medium", "Dense"}

// slotReduction is subtracted from a star's planet cap.
var slotReduction = [...]int{PlanetsSparse: 3, PlanetsMedium: 1, PlanetsDense: 0}

func (d PlanetDensity) String() string {
	if d < 0 || int(d) >= len(planetDensityNames) {
		return fmt.Sprintf("PlanetDensity(%d)", int(d))
	}
	return planetDensityNames[d]
}

// ParsePlanetDensity resolves a planet density by name (case-insensitive).
func ParsePlanetDensity(s string) (PlanetDensity, error) {
	for i, name := range planetDensityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return PlanetDensity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown planet density %q (must be one of: %s)", s, strings.Join(planetDensityNames[:], ", "))
}

func (d PlanetDensity) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *PlanetDensity) UnmarshalText(b []byte) error {
	v, err := ParsePlanetDensity(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Slots returns the number of planet slots a star of type t gets.
func (d PlanetDensity) Slots(t galaxy.StarType) int {
	reduction := 0
	if d >= 0 && int(d) < len(slotReduction) {
		reduction = slotReduction[d]
	}
	return max(0, t.MaxNumberOfPlanets()-reduction)
}

// Resource bonus rules.
const (
	systemBonusDie      = 8
	planetBonusChance   = 25
	maxPlanetBonusCount = 2
)

// Composer resolves star systems on one map.
type Composer struct {
	tables  *tables.Tables
	density PlanetDensity
	width   int
	height  int
}

// New creates a composer for a width × height map. It panics if t is nil.
func New(t *tables.Tables, width, height int, density PlanetDensity) *Composer {
	if t == nil {
		panic("compose: nil tables")
	}
	return &Composer{tables: t, density: density, width: width, height: height}
}

// Tables returns the distribution tables the composer rolls against.
func (c *Composer) Tables() *tables.Tables { return c.tables }

// Density returns the planet density.
func (c *Composer) Density() PlanetDensity { return c.density }
