// Package galaxy defines the value types produced by the generation engine:
// map coordinates, attribute domains, committed star systems, and the sector
// grid that indexes them.
//
// Attribute metadata (planet caps, interference, bonus eligibility) lives in
// static tables keyed by enum value, so lookups never allocate and never
// consult reflection.
package galaxy

// Generation constants shared across the engine.
const (
	MinDistanceBetweenStars              = 1.25
	MaxStarPlacementAttempts             = 100
	MinHomeworldDistanceFromInterference = 2
	MaxPlanetsPerSystem                  = 10
	MaxMoonsPerPlanet                    = 4
)

// CivilizationKind separates major empires from minor races.
type CivilizationKind int

const (
	KindEmpire CivilizationKind = iota
	KindMinorRace
)

var kindNames = [...]string{"Empire", "MinorRace"}

func (k CivilizationKind) String() string { return enumName(kindNames[:], int(k), "CivilizationKind") }

func (k CivilizationKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *CivilizationKind) UnmarshalText(b []byte) error {
	v, err := parseEnum(string(b), kindNames[:], "civilization kind", func(i int) CivilizationKind { return CivilizationKind(i) })
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Anchor is a fixed fractional map coordinate.
type Anchor struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Location resolves the anchor on a width × height map.
func (a Anchor) Location(width, height int) MapLocation {
	return FractionalLocation(a.X, a.Y, width, height)
}

// Civilization is one entry of the game roster together with its placement
// constraints.
type Civilization struct {
	Key            string           `json:"key"`
	Name           string           `json:"name"`
	Kind           CivilizationKind `json:"kind"`
	HomeQuadrant   Quadrant         `json:"home_quadrant"`
	HomePlanetType PlanetType       `json:"home_planet_type"`
	HomePlanetSize PlanetSize       `json:"home_planet_size"`
	HomeStarType   *StarType        `json:"home_star_type,omitempty"`

	// Anchor pins the homeworld near a fixed fractional coordinate and
	// exempts the civilization from the homeworld spacing rule.
	Anchor *Anchor `json:"anchor,omitempty"`
}

// IsEmpire reports whether c is a major empire.
func (c Civilization) IsEmpire() bool { return c.Kind == KindEmpire }

// Planet is a committed planet.
type Planet struct {
	Index   int        `json:"index"`
	Name    string     `json:"name"`
	Size    PlanetSize `json:"size"`
	Type    PlanetType `json:"type"`
	Bonuses Bonus      `json:"bonuses,omitempty"`
	Moons   []MoonType `json:"moons,omitempty"`
}

// StarSystem is a committed star system.
type StarSystem struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Location    MapLocation  `json:"location"`
	StarType    StarType     `json:"star_type"`
	Owner       string       `json:"owner,omitempty"`
	Inhabitants string       `json:"inhabitants,omitempty"`
	Bonuses     Bonus        `json:"bonuses,omitempty"`
	Planets     []Planet     `json:"planets,omitempty"`
	Destination *MapLocation `json:"wormhole_destination,omitempty"`
}

// IsHomeSystem reports whether the system is owned by a civilization.
func (s *StarSystem) IsHomeSystem() bool { return s.Owner != "" }

// Colony is the starting colony of a civilization.
type Colony struct {
	Owner       string      `json:"owner"`
	Name        string      `json:"name"`
	SystemID    int         `json:"system_id"`
	PlanetIndex int         `json:"planet_index"`
	Location    MapLocation `json:"location"`
}
