package compose

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/stargen/pkg/core/catalog"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	"github.com/matzehuels/stargen/pkg/core/sampler"
	"github.com/matzehuels/stargen/pkg/core/tables"
)

func newComposer(t *testing.T, density PlanetDensity) *Composer {
	t.Helper()
	tb, err := tables.Default()
	if err != nil {
		t.Fatalf("tables.Default: %v", err)
	}
	return New(tb, 40, 40, density)
}

func TestDensitySlots(t *testing.T) {
	tests := []struct {
		density PlanetDensity
		star    galaxy.StarType
		want    int
	}{
		{PlanetsSparse, galaxy.StarYellow, 7},
		{PlanetsMedium, galaxy.StarYellow, 9},
		{PlanetsDense, galaxy.StarYellow, 10},
		{PlanetsSparse, galaxy.StarBlue, 3},
		{PlanetsDense, galaxy.StarNebula, 0},
		{PlanetsSparse, galaxy.StarBlackHole, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.density, tt.star), func(t *testing.T) {
			if got := tt.density.Slots(tt.star); got != tt.want {
				t.Errorf("Slots = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParsePlanetDensity(t *testing.T) {
	d, err := ParsePlanetDensity(" dense ")
	if err != nil || d != PlanetsDense {
		t.Errorf("ParsePlanetDensity = %v, %v", d, err)
	}
	if _, err := ParsePlanetDensity("crowded"); err == nil {
		t.Error("expected error for unknown density")
	}
}

func TestPlanetsRespectCap(t *testing.T) {
	for _, density := range []PlanetDensity{PlanetsSparse, PlanetsMedium, PlanetsDense} {
		c := newComposer(t, density)
		for seed := range uint64(200) {
			rng := sampler.NewRNG(seed)
			for _, st := range tables.PlanetStars {
				planets := c.Planets(rng, st)
				if len(planets) > density.Slots(st) {
					t.Fatalf("%s %s: %d planets, cap %d", density, st, len(planets), density.Slots(st))
				}
				for _, p := range planets {
					if p.Size == galaxy.SizeNoWorld {
						t.Fatalf("NoWorld planet committed")
					}
					if forced, ok := p.Size.MatchingType(); ok && p.Type != forced {
						t.Fatalf("%s planet has type %s", p.Size, p.Type)
					}
				}
			}
		}
	}
}

func TestNoDisruptiveStarsNearHomeworld(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	home := galaxy.NewLocation(20, 20)
	homeworlds := []galaxy.MapLocation{home}
	near := []galaxy.MapLocation{home.Offset(1, 0), home.Offset(1, 1), home.Offset(0, -2)}
	for seed := range uint64(500) {
		rng := sampler.NewRNG(seed)
		for _, loc := range near {
			if st := c.StarType(rng, loc, homeworlds); st.Interferes() {
				t.Fatalf("seed %d: %s rolled at %v next to homeworld", seed, st, loc)
			}
		}
	}
}

func TestDisruptiveStarsAwayFromHomeworld(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	homeworlds := []galaxy.MapLocation{galaxy.NewLocation(20, 20)}
	far := galaxy.NewLocation(35, 5)
	seen := false
	for seed := range uint64(2000) {
		if c.StarType(sampler.NewRNG(seed), far, homeworlds).Interferes() {
			seen = true
			break
		}
	}
	if !seen {
		t.Error("no disruptive star rolled in 2000 tries away from homeworlds")
	}
}

func TestNoWormholeInAlpha(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	alpha := galaxy.NewLocation(5, 30)
	if q := galaxy.QuadrantOf(alpha, 40, 40); q != galaxy.QuadrantAlpha {
		t.Fatalf("test location is in %s", q)
	}
	for seed := range uint64(2000) {
		if st := c.StarType(sampler.NewRNG(seed), alpha, nil); st == galaxy.StarWormhole {
			t.Fatalf("seed %d: wormhole rolled in Alpha", seed)
		}
	}
}

func TestMoonsSortedAndCapped(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	p := galaxy.Planet{Size: galaxy.SizeGiant, Type: galaxy.PlanetBarren}
	for seed := range uint64(300) {
		moons := c.Moons(sampler.NewRNG(seed), p)
		if len(moons) > galaxy.MaxMoonsPerPlanet {
			t.Fatalf("%d moons", len(moons))
		}
		for i := 1; i < len(moons); i++ {
			if moons[i].Size() > moons[i-1].Size() {
				t.Fatalf("moons not sorted: %v", moons)
			}
		}
	}
}

func TestAsteroidsHaveNoMoons(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	p := galaxy.Planet{Size: galaxy.SizeAsteroids, Type: galaxy.PlanetAsteroids}
	for seed := range uint64(300) {
		if moons := c.Moons(sampler.NewRNG(seed), p); len(moons) != 0 {
			t.Fatalf("asteroid belt got moons %v", moons)
		}
	}
}

func TestPlanetBonusesCapped(t *testing.T) {
	for seed := range uint64(200) {
		planets := make([]galaxy.Planet, 10)
		for i := range planets {
			planets[i].Type = galaxy.PlanetTerran
		}
		planets[9].Type = galaxy.PlanetDesert
		planets[0].Bonuses = galaxy.BonusFood

		PlanetBonuses(sampler.NewRNG(seed), planets)

		food, energy := 0, 0
		for _, p := range planets {
			if p.Bonuses.Has(galaxy.BonusFood) {
				food++
				if !p.Type.FoodBonusEligible() {
					t.Fatalf("food bonus on %s", p.Type)
				}
			}
			if p.Bonuses.Has(galaxy.BonusEnergy) {
				energy++
				if !p.Type.EnergyBonusEligible() {
					t.Fatalf("energy bonus on %s", p.Type)
				}
			}
		}
		if food > maxPlanetBonusCount || energy > maxPlanetBonusCount {
			t.Fatalf("food=%d energy=%d exceeds cap", food, energy)
		}
		if !planets[0].Bonuses.Has(galaxy.BonusFood) {
			t.Fatal("existing bonus was dropped")
		}
	}
}

func TestSystemBonusDistribution(t *testing.T) {
	counts := map[galaxy.Bonus]int{}
	rng := sampler.NewRNG(7)
	for range 8000 {
		counts[SystemBonus(rng)]++
	}
	for _, b := range []galaxy.Bonus{0, galaxy.BonusDilithium, galaxy.BonusRawMaterials, galaxy.BonusDilithium | galaxy.BonusRawMaterials} {
		if counts[b] == 0 {
			t.Errorf("bonus %s never rolled", b)
		}
	}
	if len(counts) != 4 {
		t.Errorf("unexpected bonus values: %v", counts)
	}
	if counts[0] < counts[galaxy.BonusDilithium] {
		t.Errorf("no-bonus outcome should dominate: %v", counts)
	}
}

func TestExoticSystemsHaveNoPlanets(t *testing.T) {
	c := newComposer(t, PlanetsDense)
	for seed := range uint64(500) {
		sys := c.System(sampler.NewRNG(seed), galaxy.NewLocation(35, 5), nil)
		if sys.StarType.Exotic() && (len(sys.Planets) != 0 || sys.Bonuses != 0) {
			t.Fatalf("%s system has %d planets, bonus %s", sys.StarType, len(sys.Planets), sys.Bonuses)
		}
		if sys.Name != "" {
			t.Fatalf("system named %q before naming pass", sys.Name)
		}
	}
}

func testCivilization() galaxy.Civilization {
	return galaxy.Civilization{
		Key:            "FEDERATION",
		Name:           "Federation",
		Kind:           galaxy.KindEmpire,
		HomeQuadrant:   galaxy.QuadrantAlpha,
		HomePlanetType: galaxy.PlanetTerran,
		HomePlanetSize: galaxy.SizeMedium,
	}
}

func TestHomeSystemHasPrimePlanet(t *testing.T) {
	c := newComposer(t, PlanetsSparse)
	civ := testCivilization()
	for seed := range uint64(200) {
		sys, prime := c.HomeSystem(sampler.NewRNG(seed), galaxy.NewLocation(10, 30), civ, nil)
		if !sys.StarType.SupportsPlanets() {
			t.Fatalf("home star %s has no planets", sys.StarType)
		}
		if prime < 0 || prime >= len(sys.Planets) {
			t.Fatalf("prime index %d out of range [0,%d)", prime, len(sys.Planets))
		}
		p := sys.Planets[prime]
		if p.Type != civ.HomePlanetType || p.Size != civ.HomePlanetSize {
			t.Fatalf("prime planet is %s %s", p.Size, p.Type)
		}
		if len(sys.Planets) > sys.StarType.MaxNumberOfPlanets() {
			t.Fatalf("%d planets exceed cap", len(sys.Planets))
		}
		if sys.Owner != civ.Key || sys.Inhabitants != civ.Key {
			t.Fatalf("owner=%q inhabitants=%q", sys.Owner, sys.Inhabitants)
		}
		for i, pl := range sys.Planets {
			if pl.Index != i {
				t.Fatalf("planet %d has index %d", i, pl.Index)
			}
		}
	}
}

func TestHomeSystemOverride(t *testing.T) {
	c := newComposer(t, PlanetsSparse)
	civ := testCivilization()
	override := &galaxy.StarSystemDescriptor{
		StarType: galaxy.Ptr(galaxy.StarYellow),
		Name:     galaxy.Ptr("Sol"),
		Bonuses:  galaxy.BonusDilithium,
		Planets: []galaxy.PlanetDescriptor{
			{Type: galaxy.Ptr(galaxy.PlanetVolcanic), Size: galaxy.Ptr(galaxy.SizeSmall)},
			{Type: galaxy.Ptr(galaxy.PlanetTerran), Size: galaxy.Ptr(galaxy.SizeMedium), Name: galaxy.Ptr("Earth"), Bonuses: galaxy.BonusFood},
			{Size: galaxy.Ptr(galaxy.SizeGasGiant), MinCount: 2, MaxCount: 3},
		},
	}
	sys, prime := c.HomeSystem(sampler.NewRNG(3), galaxy.NewLocation(10, 30), civ, override)
	if sys.Name != "Sol" || sys.StarType != galaxy.StarYellow || sys.Bonuses != galaxy.BonusDilithium {
		t.Fatalf("got %q %s %s", sys.Name, sys.StarType, sys.Bonuses)
	}
	if prime != 1 || sys.Planets[1].Name != "Earth" {
		t.Fatalf("prime = %d (%q), want 1 (Earth)", prime, sys.Planets[prime].Name)
	}
	if !sys.Planets[1].Bonuses.Has(galaxy.BonusFood) {
		t.Error("override bonus lost")
	}
	if n := len(sys.Planets); n < 4 || n > 5 {
		t.Errorf("got %d planets, want 4 or 5", n)
	}
	for _, p := range sys.Planets[2:] {
		if p.Type != galaxy.PlanetGasGiant {
			t.Errorf("group planet is %s", p.Type)
		}
	}
}

func TestHomeSystemOverrideCapped(t *testing.T) {
	c := newComposer(t, PlanetsDense)
	civ := testCivilization()
	override := &galaxy.StarSystemDescriptor{
		StarType: galaxy.Ptr(galaxy.StarBlue),
		Planets: []galaxy.PlanetDescriptor{
			{Size: galaxy.Ptr(galaxy.SizeGasGiant), MinCount: 10, MaxCount: 10},
		},
	}
	sys, prime := c.HomeSystem(sampler.NewRNG(1), galaxy.NewLocation(10, 30), civ, override)
	if len(sys.Planets) != galaxy.StarBlue.MaxNumberOfPlanets() {
		t.Fatalf("got %d planets, want %d", len(sys.Planets), galaxy.StarBlue.MaxNumberOfPlanets())
	}
	if p := sys.Planets[prime]; p.Type != civ.HomePlanetType || p.Size != civ.HomePlanetSize {
		t.Fatalf("prime planet trimmed away: %s %s", p.Size, p.Type)
	}
}

func TestPlacePrimeAtLastSlot(t *testing.T) {
	c := newComposer(t, PlanetsDense)
	civ := testCivilization()
	full := make([]galaxy.Planet, galaxy.StarBlue.MaxNumberOfPlanets())
	for i := range full {
		full[i] = galaxy.Planet{Size: galaxy.SizeGasGiant, Type: galaxy.PlanetGasGiant}
	}
	planets, prime := c.placePrime(full, galaxy.StarBlue, civ)
	if len(planets) != len(full) {
		t.Fatalf("len = %d, want %d", len(planets), len(full))
	}
	if planets[prime].Type != civ.HomePlanetType {
		t.Fatalf("planets[%d] = %s", prime, planets[prime].Type)
	}
}

func TestExpand(t *testing.T) {
	ds := []galaxy.PlanetDescriptor{
		{Size: galaxy.Ptr(galaxy.SizeSmall)},
		{Size: galaxy.Ptr(galaxy.SizeGasGiant), MinCount: 2, MaxCount: 3},
		{Size: galaxy.Ptr(galaxy.SizeAsteroids), MinCount: 0, MaxCount: 1},
		{Size: galaxy.Ptr(galaxy.SizeLarge), MinCount: 2, MaxCount: 2},
	}
	seen := map[int]bool{}
	for seed := range uint64(200) {
		out := Expand(sampler.NewRNG(seed), ds)
		if len(out) < 5 || len(out) > 7 {
			t.Fatalf("expanded to %d planets", len(out))
		}
		for _, d := range out {
			if d.IsGroup() {
				t.Fatalf("group left unexpanded: %+v", d)
			}
		}
		seen[len(out)] = true
	}
	for n := 5; n <= 7; n++ {
		if !seen[n] {
			t.Errorf("expansion never produced %d planets", n)
		}
	}
}

func TestComposeAllDeterministic(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	civ := testCivilization()
	reqs := []Request{{Location: galaxy.NewLocation(8, 30), Civilization: &civ}}
	for i := range 60 {
		reqs = append(reqs, Request{Location: galaxy.NewLocation(i%40, (i*7)%40)})
	}
	homeworlds := []galaxy.MapLocation{reqs[0].Location}

	a, err := c.ComposeAll(context.Background(), sampler.NewRNG(11), reqs, homeworlds)
	if err != nil {
		t.Fatalf("ComposeAll: %v", err)
	}
	b, err := c.ComposeAll(context.Background(), sampler.NewRNG(11), reqs, homeworlds)
	if err != nil {
		t.Fatalf("ComposeAll: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different systems")
	}
	if a[0].PrimePlanet < 0 || a[0].System.Owner != civ.Key {
		t.Errorf("home request result = %+v", a[0])
	}
	for i, r := range a[1:] {
		if r.PrimePlanet != -1 || r.System.Owner != "" {
			t.Errorf("result %d: prime=%d owner=%q", i+1, r.PrimePlanet, r.System.Owner)
		}
		if r.System.Location != reqs[i+1].Location {
			t.Errorf("result %d out of order", i+1)
		}
	}
}

func TestComposeAllCanceled(t *testing.T) {
	c := newComposer(t, PlanetsMedium)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ComposeAll(ctx, sampler.NewRNG(1), []Request{{Location: galaxy.NewLocation(1, 1)}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNameSystems(t *testing.T) {
	n := Namer{
		Stars:   catalog.NewNamePool([]string{"Vega"}, nil),
		Nebulae: catalog.NewNamePool([]string{"Mutara"}, nil),
	}
	systems := []*galaxy.StarSystem{
		{Name: "Sol", StarType: galaxy.StarYellow, Planets: []galaxy.Planet{{Name: "Earth"}, {}}},
		{StarType: galaxy.StarNebula},
		{StarType: galaxy.StarWormhole},
		{StarType: galaxy.StarRed, Planets: []galaxy.Planet{{}, {}, {}}},
		{StarType: galaxy.StarWhite, Location: galaxy.NewLocation(3, 4)},
	}
	n.NameSystems(systems)

	want := []string{"Sol", "Mutara", "", "Vega", "Sector 3-4"}
	for i, sys := range systems {
		if sys.Name != want[i] {
			t.Errorf("system %d named %q, want %q", i, sys.Name, want[i])
		}
	}
	if got := systems[0].Planets[0].Name; got != "Earth" {
		t.Errorf("override planet renamed to %q", got)
	}
	if got := systems[0].Planets[1].Name; got != "Sol II" {
		t.Errorf("planet named %q, want Sol II", got)
	}
	if got := systems[3].Planets[2].Name; got != "Vega III" {
		t.Errorf("planet named %q, want Vega III", got)
	}
}

func ExamplePlanetName() {
	fmt.Println(PlanetName("Vega", 0))
	fmt.Println(PlanetName("Vega", 3))
	fmt.Println(PlanetName("Vega", 11))
	// Output:
	// Vega I
	// Vega IV
	// Vega 12
}
