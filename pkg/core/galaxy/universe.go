package galaxy

import (
	"cmp"
	"slices"
)

// Galaxy is a generated universe.
type Galaxy struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   uint64 `json:"seed"`
	Shape  string `json:"shape"`

	// Attempts is the number of generation attempts it took.
	Attempts int `json:"attempts"`

	Systems       []*StarSystem  `json:"systems"`
	Colonies      []Colony       `json:"colonies"`
	Civilizations []Civilization `json:"civilizations"`

	sectors *SectorMap
}

// Commit orders the systems row by row, assigns their IDs, and builds the
// sector grid. Colonies are re-pointed at the new system IDs by location.
func (g *Galaxy) Commit() error {
	slices.SortFunc(g.Systems, func(a, b *StarSystem) int {
		return cmp.Or(cmp.Compare(a.Location.Y, b.Location.Y), cmp.Compare(a.Location.X, b.Location.X))
	})
	for i, s := range g.Systems {
		s.ID = i
	}
	m := NewSectorMap(g.Width, g.Height)
	if err := m.Index(g.Systems); err != nil {
		return err
	}
	for i := range g.Colonies {
		if s, ok := m.SystemAt(g.Colonies[i].Location); ok {
			g.Colonies[i].SystemID = s.ID
		}
	}
	g.sectors = m
	return nil
}

// Sectors returns the sector grid built by [Galaxy.Commit], or nil.
func (g *Galaxy) Sectors() *SectorMap { return g.sectors }

// Colony returns the starting colony of a civilization.
func (g *Galaxy) Colony(key string) (Colony, bool) {
	i := slices.IndexFunc(g.Colonies, func(c Colony) bool { return c.Owner == key })
	if i < 0 {
		return Colony{}, false
	}
	return g.Colonies[i], true
}

// Wormholes returns every wormhole system.
func (g *Galaxy) Wormholes() []*StarSystem {
	var out []*StarSystem
	for _, s := range g.Systems {
		if s.StarType == StarWormhole {
			out = append(out, s)
		}
	}
	return out
}

// Stats summarizes a galaxy.
type Stats struct {
	Systems   int                `json:"systems"`
	Planets   int                `json:"planets"`
	Moons     int                `json:"moons"`
	Colonies  int                `json:"colonies"`
	Wormholes int                `json:"wormholes"`
	ByStar    map[StarType]int   `json:"by_star"`
	ByQuad    map[Quadrant]int   `json:"by_quadrant"`
	ByPlanet  map[PlanetType]int `json:"by_planet"`
}

// Stats counts the contents of g.
func (g *Galaxy) Stats() Stats {
	st := Stats{
		Systems:  len(g.Systems),
		Colonies: len(g.Colonies),
		ByStar:   make(map[StarType]int),
		ByQuad:   make(map[Quadrant]int),
		ByPlanet: make(map[PlanetType]int),
	}
	for _, s := range g.Systems {
		st.ByStar[s.StarType]++
		st.ByQuad[QuadrantOf(s.Location, g.Width, g.Height)]++
		if s.StarType == StarWormhole {
			st.Wormholes++
		}
		st.Planets += len(s.Planets)
		for _, p := range s.Planets {
			st.ByPlanet[p.Type]++
			st.Moons += len(p.Moons)
		}
	}
	return st
}
