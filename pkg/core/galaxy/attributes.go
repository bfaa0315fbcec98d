package galaxy

import (
	"fmt"
	"strings"
)

// StarType classifies the primary body of a star system.
type StarType int

const (
	StarWhite StarType = iota
	StarBlue
	StarYellow
	StarOrange
	StarRed
	StarNebula
	StarNeutron
	StarRadioPulsar
	StarXRayPulsar
	StarBlackHole
	StarWormhole
)

// StarTypes lists every star type in declaration order. Weighted rolls
// enumerate candidates in this order.
var StarTypes = []StarType{
	StarWhite, StarBlue, StarYellow, StarOrange, StarRed, StarNebula,
	StarNeutron, StarRadioPulsar, StarXRayPulsar, StarBlackHole, StarWormhole,
}

type starInfo struct {
	name       string
	maxPlanets int
	interferes bool
	exotic     bool
}

var starInfos = [...]starInfo{
	StarWhite:       {name: "White", maxPlanets: 8},
	StarBlue:        {name: "Blue", maxPlanets: 6},
	StarYellow:      {name: "Yellow", maxPlanets: 10},
	StarOrange:      {name: "Orange", maxPlanets: 9},
	StarRed:         {name: "Red", maxPlanets: 7},
	StarNebula:      {name: "Nebula", interferes: true, exotic: true},
	StarNeutron:     {name: "NeutronStar", interferes: true, exotic: true},
	StarRadioPulsar: {name: "RadioPulsar", interferes: true, exotic: true},
	StarXRayPulsar:  {name: "XRayPulsar", interferes: true, exotic: true},
	StarBlackHole:   {name: "BlackHole", interferes: true, exotic: true},
	StarWormhole:    {name: "Wormhole", interferes: true, exotic: true},
}

func (t StarType) valid() bool { return t >= 0 && int(t) < len(starInfos) }

func (t StarType) String() string {
	if !t.valid() {
		return fmt.Sprintf("StarType(%d)", int(t))
	}
	return starInfos[t].name
}

// MaxNumberOfPlanets is the planet cap for systems orbiting t, never more
// than MaxPlanetsPerSystem.
func (t StarType) MaxNumberOfPlanets() int {
	if !t.valid() {
		return 0
	}
	return min(starInfos[t].maxPlanets, MaxPlanetsPerSystem)
}

// SupportsPlanets reports whether t can hold any planets.
func (t StarType) SupportsPlanets() bool { return t.MaxNumberOfPlanets() > 0 }

// Interferes reports whether t is disruptive near a homeworld.
func (t StarType) Interferes() bool { return t.valid() && starInfos[t].interferes }

// Exotic reports whether t is not an ordinary star.
func (t StarType) Exotic() bool { return t.valid() && starInfos[t].exotic }

func (t StarType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *StarType) UnmarshalText(b []byte) error {
	v, err := ParseStarType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseStarType resolves a star type by name (case-insensitive).
func ParseStarType(s string) (StarType, error) {
	names := make([]string, len(starInfos))
	for i, info := range starInfos {
		names[i] = info.name
	}
	return parseEnum(s, names, "star type", func(i int) StarType { return StarType(i) })
}

// PlanetSize is the size class of a planet. NoWorld marks an empty slot.
type PlanetSize int

const (
	SizeNoWorld PlanetSize = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeGiant
	SizeGasGiant
	SizeAsteroids
)

// PlanetSizes lists every planet size in declaration order.
var PlanetSizes = []PlanetSize{
	SizeNoWorld, SizeSmall, SizeMedium, SizeLarge, SizeGiant, SizeGasGiant, SizeAsteroids,
}

var planetSizeNames = [...]string{"NoWorld", "Small", "Medium", "Large", "Giant", "GasGiant", "Asteroids"}

func (s PlanetSize) String() string { return enumName(planetSizeNames[:], int(s), "PlanetSize") }

func (s PlanetSize) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *PlanetSize) UnmarshalText(b []byte) error {
	v, err := ParsePlanetSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParsePlanetSize resolves a planet size by name (case-insensitive).
func ParsePlanetSize(s string) (PlanetSize, error) {
	return parseEnum(s, planetSizeNames[:], "planet size", func(i int) PlanetSize { return PlanetSize(i) })
}

// PlanetType is the surface class of a planet.
type PlanetType int

const (
	PlanetArctic PlanetType = iota
	PlanetBarren
	PlanetCrystalline
	PlanetDemon
	PlanetDesert
	PlanetJungle
	PlanetOceanic
	PlanetRogue
	PlanetTerran
	PlanetVolcanic
	PlanetGasGiant
	PlanetAsteroids
)

// PlanetTypes lists every planet type in declaration order.
var PlanetTypes = []PlanetType{
	PlanetArctic, PlanetBarren, PlanetCrystalline, PlanetDemon, PlanetDesert, PlanetJungle,
	PlanetOceanic, PlanetRogue, PlanetTerran, PlanetVolcanic, PlanetGasGiant, PlanetAsteroids,
}

type planetInfo struct {
	name      string
	habitable bool
	food      bool
	energy    bool
}

var planetInfos = [...]planetInfo{
	PlanetArctic:      {name: "Arctic", habitable: true},
	PlanetBarren:      {name: "Barren", habitable: true},
	PlanetCrystalline: {name: "Crystalline", energy: true},
	PlanetDemon:       {name: "Demon"},
	PlanetDesert:      {name: "Desert", habitable: true, energy: true},
	PlanetJungle:      {name: "Jungle", habitable: true, food: true},
	PlanetOceanic:     {name: "Oceanic", habitable: true, food: true},
	PlanetRogue:       {name: "Rogue"},
	PlanetTerran:      {name: "Terran", habitable: true, food: true},
	PlanetVolcanic:    {name: "Volcanic", habitable: true, energy: true},
	PlanetGasGiant:    {name: "GasGiant"},
	PlanetAsteroids:   {name: "Asteroids"},
}

func (t PlanetType) valid() bool { return t >= 0 && int(t) < len(planetInfos) }

func (t PlanetType) String() string {
	if !t.valid() {
		return fmt.Sprintf("PlanetType(%d)", int(t))
	}
	return planetInfos[t].name
}

// Habitable reports whether colonies can live on planets of type t.
func (t PlanetType) Habitable() bool { return t.valid() && planetInfos[t].habitable }

// FoodBonusEligible reports whether t may carry a food bonus.
func (t PlanetType) FoodBonusEligible() bool { return t.valid() && planetInfos[t].food }

// EnergyBonusEligible reports whether t may carry an energy bonus.
func (t PlanetType) EnergyBonusEligible() bool { return t.valid() && planetInfos[t].energy }

func (t PlanetType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *PlanetType) UnmarshalText(b []byte) error {
	v, err := ParsePlanetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParsePlanetType resolves a planet type by name (case-insensitive).
func ParsePlanetType(s string) (PlanetType, error) {
	names := make([]string, len(planetInfos))
	for i, info := range planetInfos {
		names[i] = info.name
	}
	return parseEnum(s, names, "planet type", func(i int) PlanetType { return PlanetType(i) })
}

// MatchingType returns the planet type a size forces, if any. Gas giants
// and asteroid belts have a one-to-one size/type pairing.
func (s PlanetSize) MatchingType() (PlanetType, bool) {
	switch s {
	case SizeGasGiant:
		return PlanetGasGiant, true
	case SizeAsteroids:
		return PlanetAsteroids, true
	}
	return 0, false
}

// MatchingSize is the inverse of [PlanetSize.MatchingType].
func (t PlanetType) MatchingSize() (PlanetSize, bool) {
	switch t {
	case PlanetGasGiant:
		return SizeGasGiant, true
	case PlanetAsteroids:
		return SizeAsteroids, true
	}
	return 0, false
}

// Bonus is a bit set of resource bonuses on a system or planet.
type Bonus uint8

const (
	BonusDilithium Bonus = 1 << iota
	BonusRawMaterials
	BonusFood
	BonusEnergy
)

// Has reports whether all bits of b2 are set in b.
func (b Bonus) Has(b2 Bonus) bool { return b&b2 == b2 }

func (b Bonus) String() string {
	if b == 0 {
		return "None"
	}
	var parts []string
	for i, name := range bonusNames {
		if b.Has(1 << i) {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

var bonusNames = [...]string{"Dilithium", "RawMaterials", "Food", "Energy"}

func (b Bonus) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Bonus) UnmarshalText(text []byte) error {
	v, err := ParseBonus(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBonus parses a "|"-separated bonus list such as "Dilithium|Food".
// "None" and the empty string both yield the zero set.
func ParseBonus(s string) (Bonus, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "None") {
		return 0, nil
	}
	var b Bonus
	for _, part := range strings.Split(s, "|") {
		i, err := parseEnum(part, bonusNames[:], "bonus", func(i int) int { return i })
		if err != nil {
			return 0, err
		}
		b |= 1 << i
	}
	return b, nil
}

func enumName(names []string, i int, kind string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

func parseEnum[T any](s string, names []string, kind string, conv func(int) T) (T, error) {
	s = strings.TrimSpace(s)
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return conv(i), nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}
