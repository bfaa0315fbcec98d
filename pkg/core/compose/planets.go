package compose

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/sampler"
	"github.com/matzehuels/stargen/pkg/core/tables"
)

// rollSize rolls a planet size for slot of a star. When solid is true only
// sizes that occupy the slot are candidates.
func (c *Composer) rollSize(rng *rand.Rand, star galaxy.StarType, slot int, solid bool) galaxy.PlanetSize {
	size, _, _ := sampler.Roll(rng, galaxy.PlanetSizes,
		func(s galaxy.PlanetSize) int {
			return c.tables.StarPlanetSize.Weight(star, s) + c.tables.SlotPlanetSize.Weight(slot, s)
		},
		func(s galaxy.PlanetSize) bool { return !solid || s != galaxy.SizeNoWorld },
	)
	return size
}

// rollType rolls a surface type for a solid planet.
func (c *Composer) rollType(rng *rand.Rand, star galaxy.StarType, slot int, size galaxy.PlanetSize) galaxy.PlanetType {
	pt, _, _ := sampler.Roll(rng, tables.SurfaceTypes,
		func(t galaxy.PlanetType) int {
			return c.tables.StarPlanetType.Weight(star, t) +
				c.tables.SlotPlanetType.Weight(slot, t) +
				c.tables.SizePlanetType.Weight(size, t)
		},
		nil,
	)
	return pt
}

// resolve fills the unset size and type of a single planet descriptor.
func (c *Composer) resolve(rng *rand.Rand, star galaxy.StarType, slot int, d galaxy.PlanetDescriptor) galaxy.Planet {
	p := galaxy.Planet{Bonuses: d.Bonuses}
	if d.Name != nil {
		p.Name = *d.Name
	}
	switch {
	case d.Size != nil:
		p.Size = *d.Size
	case d.Type != nil:
		if size, ok := d.Type.MatchingSize(); ok {
			p.Size = size
		} else {
			p.Size = c.solidSize(rng, star, slot)
		}
	default:
		p.Size = c.rollSize(rng, star, slot, true)
	}
	if forced, ok := p.Size.MatchingType(); ok {
		p.Type = forced
	} else if d.Type != nil {
		p.Type = *d.Type
	} else {
		p.Type = c.rollType(rng, star, slot, p.Size)
	}
	return p
}

// solidSize rolls among sizes that take a surface type.
func (c *Composer) solidSize(rng *rand.Rand, star galaxy.StarType, slot int) galaxy.PlanetSize {
	size, _, _ := sampler.Roll(rng, tables.SolidSizes,
		func(s galaxy.PlanetSize) int {
			return c.tables.StarPlanetSize.Weight(star, s) + c.tables.SlotPlanetSize.Weight(slot, s)
		},
		nil,
	)
	return size
}

// Planets rolls the planets of an ordinary system. Slots that roll NoWorld
// stay empty.
func (c *Composer) Planets(rng *rand.Rand, star galaxy.StarType) []galaxy.Planet {
	slots := c.density.Slots(star)
	var planets []galaxy.Planet
	for slot := range slots {
		size := c.rollSize(rng, star, slot, false)
		if size == galaxy.SizeNoWorld {
			continue
		}
		planets = append(planets, c.resolve(rng, star, slot, galaxy.PlanetDescriptor{Size: &size}))
	}
	return planets
}

// Moons rolls the moons of p. Each accepted moon raises a handicap of
// winningScore / MaxMoonsPerPlanet against further moons. The result is
// sorted largest first.
func (c *Composer) Moons(rng *rand.Rand, p galaxy.Planet) []galaxy.MoonType {
	var moons []galaxy.MoonType
	handicap := 0
	for range galaxy.MaxMoonsPerPlanet {
		size, score, _ := sampler.Roll(rng, galaxy.MoonSizes,
			func(m galaxy.MoonSize) int {
				w := c.tables.PlanetSizeMoonSize.Weight(p.Size, m) + c.tables.PlanetTypeMoonSize.Weight(p.Type, m)
				if m != galaxy.MoonNone {
					w -= handicap
				}
				return w
			},
			nil,
		)
		if size == galaxy.MoonNone {
			continue
		}
		shape := galaxy.MoonShapes[rng.IntN(len(galaxy.MoonShapes))]
		moons = append(moons, galaxy.MoonTypeOf(size, shape))
		handicap += score / galaxy.MaxMoonsPerPlanet
	}
	slices.SortStableFunc(moons, func(a, b galaxy.MoonType) int {
		return int(b.Size()) - int(a.Size())
	})
	return moons
}

// SystemBonus rolls the system level bonus on a d8: 1 Dilithium,
// 2 RawMaterials, 3 both, anything else none.
func SystemBonus(rng *rand.Rand) galaxy.Bonus {
	switch sampler.Die(rng, systemBonusDie) {
	case 1:
		return galaxy.BonusDilithium
	case 2:
		return galaxy.BonusRawMaterials
	case 3:
		return galaxy.BonusDilithium | galaxy.BonusRawMaterials
	}
	return 0
}

// PlanetBonuses grants Food and Energy bonuses to eligible planets with a
// 25% chance each, at most two planets per bonus. Bonuses already present
// count against the cap.
func PlanetBonuses(rng *rand.Rand, planets []galaxy.Planet) {
	food, energy := 0, 0
	for _, p := range planets {
		if p.Bonuses.Has(galaxy.BonusFood) {
			food++
		}
		if p.Bonuses.Has(galaxy.BonusEnergy) {
			energy++
		}
	}
	for i := range planets {
		p := &planets[i]
		if p.Type.FoodBonusEligible() && !p.Bonuses.Has(galaxy.BonusFood) && food < maxPlanetBonusCount &&
			sampler.Chance(rng, planetBonusChance) {
			p.Bonuses |= galaxy.BonusFood
			food++
		}
		if p.Type.EnergyBonusEligible() && !p.Bonuses.Has(galaxy.BonusEnergy) && energy < maxPlanetBonusCount &&
			sampler.Chance(rng, planetBonusChance) {
			p.Bonuses |= galaxy.BonusEnergy
			energy++
		}
	}
}

// finish rolls moons, numbers the planets, and applies planet bonuses.
func (c *Composer) finish(rng *rand.Rand, planets []galaxy.Planet) []galaxy.Planet {
	for i := range planets {
		planets[i].Index = i
		planets[i].Moons = c.Moons(rng, planets[i])
	}
	PlanetBonuses(rng, planets)
	return planets
}
