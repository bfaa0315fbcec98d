// Package wormhole places the scripted wormhole endpoints and links every
// wormhole system to a partner.
//
// Linking runs after all systems are composed and named. The two scripted
// endpoints always lead to each other. The remaining wormholes are paired
// in grid scan order (row by row, left to right); an odd one out keeps no
// destination. Each wormhole is named after the closest non-exotic star.
//
// Scripted endpoints obey the same interference rule as rolled wormholes:
// no endpoint lies within [galaxy.MinHomeworldDistanceFromInterference] of
// a homeworld.
package wormhole

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/spatial"
)

// Endpoints are the fractional coordinates of the scripted wormhole pair.
var Endpoints = [2]galaxy.Anchor{{X: 0.30, Y: 0.70}, {X: 0.25, Y: 0.30}}

// Linker links the wormholes of one map.
type Linker struct {
	width, height int
	logger        *log.Logger
}

// NewLinker creates a linker for a width × height map. logger may be nil.
func NewLinker(width, height int, logger *log.Logger) *Linker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Linker{width: width, height: height, logger: logger}
}

// Result summarizes a linking pass.
type Result struct {
	// Scripted holds the endpoint systems that were added.
	Scripted []*galaxy.StarSystem
	Pairs    int
	Unpaired *galaxy.StarSystem
}

// Link adds the scripted endpoints to systems, pairs all wormholes, and
// names them. It returns the extended system list.
func (l *Linker) Link(systems []*galaxy.StarSystem, homeworlds []galaxy.MapLocation) ([]*galaxy.StarSystem, Result) {
	var res Result
	stars := spatial.New(spatial.Bounds(l.width, l.height))
	for _, s := range systems {
		stars.Insert(s.Location)
	}

	for _, e := range Endpoints {
		at := e.Location(l.width, l.height)
		loc, ok := spatial.Nearest(at, stars.Bounds(), func(c galaxy.MapLocation) bool {
			return stars.Vacant(c, galaxy.MinDistanceBetweenStars) && !nearHomeworld(c, homeworlds)
		})
		if !ok {
			l.logger.Warn("no room for scripted wormhole", "near", at)
			continue
		}
		stars.Insert(loc)
		sys := &galaxy.StarSystem{Location: loc, StarType: galaxy.StarWormhole}
		res.Scripted = append(res.Scripted, sys)
		systems = append(systems, sys)
	}
	if len(res.Scripted) == 2 {
		connect(res.Scripted[0], res.Scripted[1])
		res.Pairs++
	}

	var rest []*galaxy.StarSystem
	for _, s := range systems {
		if s.StarType == galaxy.StarWormhole && !slices.Contains(res.Scripted, s) {
			rest = append(rest, s)
		}
	}
	slices.SortFunc(rest, func(a, b *galaxy.StarSystem) int { return ScanOrder(a.Location, b.Location) })
	for i := 0; i+1 < len(rest); i += 2 {
		connect(rest[i], rest[i+1])
		res.Pairs++
	}
	if len(rest)%2 == 1 {
		res.Unpaired = rest[len(rest)-1]
	}

	for _, s := range systems {
		if s.StarType == galaxy.StarWormhole {
			s.Name = Name(s.Location, systems)
		}
	}
	l.logger.Debug("linked wormholes", "pairs", res.Pairs, "scripted", len(res.Scripted))
	return systems, res
}

func nearHomeworld(loc galaxy.MapLocation, homeworlds []galaxy.MapLocation) bool {
	return slices.ContainsFunc(homeworlds, func(h galaxy.MapLocation) bool {
		return loc.Distance(h) <= galaxy.MinHomeworldDistanceFromInterference
	})
}

func connect(a, b *galaxy.StarSystem) {
	da, db := b.Location, a.Location
	a.Destination = &da
	b.Destination = &db
}

// ScanOrder compares two locations row by row, then left to right.
func ScanOrder(a, b galaxy.MapLocation) int {
	return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
}

// Name returns "<nearest non-exotic star> Wormhole" for a wormhole at loc,
// or "Wormhole" when no named ordinary star exists.
func Name(loc galaxy.MapLocation, systems []*galaxy.StarSystem) string {
	var nearest *galaxy.StarSystem
	best := 0.0
	for _, s := range systems {
		if s.StarType.Exotic() || s.Name == "" {
			continue
		}
		if d := loc.Distance(s.Location); nearest == nil || d < best {
			nearest, best = s, d
		}
	}
	if nearest == nil {
		return "Wormhole"
	}
	return nearest.Name + " Wormhole"
}
