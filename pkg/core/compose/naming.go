package compose

import (
	"fmt"

	"github.com/matzehuels/stargen/pkg/core/catalog"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

var numerals = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// Namer assigns names to composed systems from shared pools.
type Namer struct {
	Stars   *catalog.NamePool
	Nebulae *catalog.NamePool
}

// NameSystems names every unnamed system and planet in order. Wormholes are
// left for the wormhole linker. When the pools run dry, systems fall back
// to a sector designation.
func (n Namer) NameSystems(systems []*galaxy.StarSystem) {
	for _, sys := range systems {
		if sys.Name == "" && sys.StarType != galaxy.StarWormhole {
			sys.Name = n.systemName(sys)
		}
		for i := range sys.Planets {
			if sys.Planets[i].Name == "" {
				sys.Planets[i].Name = PlanetName(sys.Name, i)
			}
		}
	}
}

func (n Namer) systemName(sys *galaxy.StarSystem) string {
	fallback := func() string {
		return fmt.Sprintf("Sector %d-%d", sys.Location.X, sys.Location.Y)
	}
	if sys.StarType == galaxy.StarNebula && n.Nebulae != nil {
		if name, ok := n.Nebulae.Take(); ok {
			return name
		}
	}
	if n.Stars == nil {
		return fallback()
	}
	return n.Stars.TakeOr(fallback)
}

// PlanetName returns the default name of the i-th planet of a system.
func PlanetName(system string, i int) string {
	if i >= 0 && i < len(numerals) {
		return system + " " + numerals[i]
	}
	return fmt.Sprintf("%s %d", system, i+1)
}
