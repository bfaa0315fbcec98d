package compose

import (
	"math/rand/v2"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/sampler"
)

// nearHomeworld reports whether loc is within interference range of any
// homeworld.
func nearHomeworld(loc galaxy.MapLocation, homeworlds []galaxy.MapLocation) bool {
	for _, h := range homeworlds {
		if loc.Distance(h) <= galaxy.MinHomeworldDistanceFromInterference {
			return true
		}
	}
	return false
}

// StarType rolls the star type for an ordinary system at loc.
func (c *Composer) StarType(rng *rand.Rand, loc galaxy.MapLocation, homeworlds []galaxy.MapLocation) galaxy.StarType {
	shielded := nearHomeworld(loc, homeworlds)
	st, _, ok := sampler.Roll(rng, galaxy.StarTypes,
		func(t galaxy.StarType) int { return c.tables.StarFrequency[t] },
		func(t galaxy.StarType) bool { return !shielded || !t.Interferes() },
	)
	if !ok {
		st = galaxy.StarYellow
	}
	if st == galaxy.StarWormhole && galaxy.QuadrantOf(loc, c.width, c.height) == galaxy.QuadrantAlpha {
		st = galaxy.StarBlackHole
	}
	return st
}

// homeStarType rolls a planet-bearing star for a home system without a
// fixed star type.
func (c *Composer) homeStarType(rng *rand.Rand) galaxy.StarType {
	st, _, ok := sampler.Roll(rng, galaxy.StarTypes,
		func(t galaxy.StarType) int { return c.tables.StarFrequency[t] },
		galaxy.StarType.SupportsPlanets,
	)
	if !ok {
		return galaxy.StarYellow
	}
	return st
}
