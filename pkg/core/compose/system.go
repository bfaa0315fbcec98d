package compose

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

// System composes an ordinary (unowned) system at loc. The system is left
// unnamed.
func (c *Composer) System(rng *rand.Rand, loc galaxy.MapLocation, homeworlds []galaxy.MapLocation) *galaxy.StarSystem {
	st := c.StarType(rng, loc, homeworlds)
	sys := &galaxy.StarSystem{Location: loc, StarType: st}
	if st.SupportsPlanets() {
		sys.Planets = c.finish(rng, c.Planets(rng, st))
		sys.Bonuses = SystemBonus(rng)
	}
	return sys
}

// HomeSystem composes the home system of civ at loc. override may be nil.
// It returns the system and the index of the prime planet the starting
// colony settles.
func (c *Composer) HomeSystem(rng *rand.Rand, loc galaxy.MapLocation, civ galaxy.Civilization, override *galaxy.StarSystemDescriptor) (*galaxy.StarSystem, int) {
	if override == nil {
		override = &galaxy.StarSystemDescriptor{}
	}

	var st galaxy.StarType
	switch {
	case override.StarType != nil:
		st = *override.StarType
	case civ.HomeStarType != nil:
		st = *civ.HomeStarType
	default:
		st = c.homeStarType(rng)
	}

	sys := &galaxy.StarSystem{
		Location:    loc,
		StarType:    st,
		Owner:       civ.Key,
		Inhabitants: civ.Key,
	}
	if override.Name != nil {
		sys.Name = *override.Name
	}
	if override.Inhabitants != nil {
		sys.Inhabitants = *override.Inhabitants
	}

	capacity := st.MaxNumberOfPlanets()
	var planets []galaxy.Planet
	if len(override.Planets) > 0 {
		for slot, d := range Expand(rng, override.Planets) {
			if slot >= capacity {
				break
			}
			planets = append(planets, c.resolve(rng, st, slot, d))
		}
	} else {
		planets = c.Planets(rng, st)
	}

	planets, prime := c.placePrime(planets, st, civ)
	sys.Planets = c.finish(rng, planets)

	if override.Bonuses != 0 {
		sys.Bonuses = override.Bonuses
	} else {
		sys.Bonuses = SystemBonus(rng)
	}
	return sys, prime
}

// placePrime makes sure planets holds a planet of the civilization's home
// type and size. When none exists one is inserted at the slot with the
// best combined slot weight, and the list is trimmed to the star's cap
// without dropping the prime planet.
func (c *Composer) placePrime(planets []galaxy.Planet, st galaxy.StarType, civ galaxy.Civilization) ([]galaxy.Planet, int) {
	if i := slices.IndexFunc(planets, func(p galaxy.Planet) bool {
		return p.Type == civ.HomePlanetType && p.Size == civ.HomePlanetSize
	}); i >= 0 {
		return planets, i
	}

	capacity := st.MaxNumberOfPlanets()
	best, bestScore := 0, 0
	for slot := range capacity {
		score := c.tables.SlotPlanetSize.Weight(slot, civ.HomePlanetSize) +
			c.tables.SlotPlanetType.Weight(slot, civ.HomePlanetType)
		if slot == 0 || score > bestScore {
			best, bestScore = slot, score
		}
	}

	prime := min(best, len(planets))
	planets = slices.Insert(planets, prime, galaxy.Planet{Size: civ.HomePlanetSize, Type: civ.HomePlanetType})
	for len(planets) > capacity {
		drop := len(planets) - 1
		if drop == prime {
			drop--
			prime--
		}
		planets = slices.Delete(planets, drop, drop+1)
	}
	return planets, prime
}

// Expand turns slot groups into single planet descriptors. A group with
// counts min..max expands into a uniformly drawn number of copies. A
// descriptor with unset counts stays a single planet.
func Expand(rng *rand.Rand, ds []galaxy.PlanetDescriptor) []galaxy.PlanetDescriptor {
	var out []galaxy.PlanetDescriptor
	for _, d := range ds {
		n := 1
		if d.MaxCount > 0 && (d.IsGroup() || d.MinCount != d.MaxCount) {
			n = d.MinCount + rng.IntN(d.MaxCount-d.MinCount+1)
		}
		for range n {
			out = append(out, d.Single())
		}
	}
	return out
}
